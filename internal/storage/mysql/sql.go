package mysql

const insertHotelSQL = `
INSERT INTO hotels
  (owner_id, title, description, image, country, state, city, location_description, amenities)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels SET
  title                = ?,
  description          = ?,
  image                = ?,
  country              = ?,
  state                = ?,
  city                 = ?,
  location_description = ?,
  amenities            = ?
WHERE id = ?
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const hotelColumns = `
  id, owner_id, title, description, image, country, state, city,
  location_description, amenities, created_at, updated_at`

const getHotelSQL = `SELECT` + hotelColumns + `
FROM hotels
WHERE id = ?
`

// Each filter is skipped when its first placeholder is NULL.
const listHotelsSQL = `SELECT` + hotelColumns + `
FROM hotels
WHERE (? IS NULL OR title LIKE ?)
  AND (? IS NULL OR owner_id = ?)
  AND (? IS NULL OR country = ?)
ORDER BY updated_at DESC, id DESC
LIMIT ?
`
