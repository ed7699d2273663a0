package anilist

// Field selection shared by every media query.
const mediaFields = `
      id
      title {
        romaji
        english
        native
      }
      description(asHtml: false)
      coverImage {
        large
        medium
        color
      }
      bannerImage
      genres
      averageScore
      popularity
      startDate {
        year
        month
        day
      }
      status
      format
      chapters
      countryOfOrigin`

const trendingQuery = `
query ($perPage: Int) {
  Page(page: 1, perPage: $perPage) {
    media(type: MANGA, sort: TRENDING_DESC, isAdult: false) {` + mediaFields + `
    }
  }
}`

const monthlyQuery = `
query ($perPage: Int) {
  Page(page: 1, perPage: $perPage) {
    media(type: MANGA, sort: POPULARITY_DESC, isAdult: false) {` + mediaFields + `
    }
  }
}`

const suggestedQuery = `
query ($perPage: Int, $genres: [String], $excludeGenres: [String]) {
  Page(page: 1, perPage: $perPage) {
    media(type: MANGA, sort: SCORE_DESC, genre_in: $genres, genre_not_in: $excludeGenres, isAdult: false) {` + mediaFields + `
    }
  }
}`

const searchQuery = `
query ($search: String, $perPage: Int) {
  Page(page: 1, perPage: $perPage) {
    media(type: MANGA, search: $search, isAdult: false) {` + mediaFields + `
    }
  }
}`

const browseQuery = `
query ($page: Int, $perPage: Int, $genre: String, $format: MediaFormat, $status: MediaStatus, $sort: [MediaSort]) {
  Page(page: $page, perPage: $perPage) {
    media(type: MANGA, genre: $genre, format: $format, status: $status, sort: $sort, isAdult: false) {` + mediaFields + `
    }
  }
}`

const mangaQuery = `
query ($id: Int) {
  Media(id: $id, type: MANGA) {` + mediaFields + `
  }
}`

const genreQuery = `
query ($genre: String, $perPage: Int) {
  Page(page: 1, perPage: $perPage) {
    media(type: MANGA, genre: $genre, sort: SCORE_DESC, isAdult: false) {` + mediaFields + `
    }
  }
}`
