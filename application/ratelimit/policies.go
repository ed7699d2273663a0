package ratelimit

// Strategies name what a limit is keyed on.
const (
	StrategyIP    = "ip"
	StrategyEmail = "email"
	StrategyUser  = "user"
)

const hourWindow = 3600

// Policy is a named (limit, window, strategy) triple used by call sites
type Policy struct {
	Name          string
	Limit         int
	WindowSeconds int
	Strategy      string
}

// Fixed policies for abuse-prone endpoints.
var (
	Registration  = Policy{Name: "registration", Limit: 5, WindowSeconds: hourWindow, Strategy: StrategyIP}
	Login         = Policy{Name: "login", Limit: 10, WindowSeconds: hourWindow, Strategy: StrategyEmail}
	PasswordReset = Policy{Name: "password-reset", Limit: 3, WindowSeconds: hourWindow, Strategy: StrategyEmail}
	API           = Policy{Name: "api", Limit: 20, WindowSeconds: hourWindow, Strategy: StrategyUser}
	Search        = Policy{Name: "search", Limit: 50, WindowSeconds: hourWindow, Strategy: StrategyUser}
)

// Translation builds the translation policy from configuration. The limit
// is configured rather than fixed because two call sites in the product
// historically disagreed (20 vs 100 per hour); the deployment owner picks.
func Translation(limit int) Policy {
	return Policy{Name: "translation", Limit: limit, WindowSeconds: hourWindow, Strategy: StrategyUser}
}
