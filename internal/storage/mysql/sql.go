package mysql

// Engagement counters are correlated subqueries so favorites and messages
// never multiply each other. Messages sent by the owner are not inquiries.
const propertyColumns = `
  p.id,
  p.seller_id,
  p.title,
  p.price,
  p.status,
  p.created_at,
  p.images,
  (SELECT COUNT(*) FROM favorites f WHERE f.property_id = p.id) AS favorite_count,
  (SELECT COUNT(*) FROM messages m WHERE m.property_id = p.id AND m.sender_id <> p.seller_id) AS message_count
`

const listBySellerSQL = `SELECT` + propertyColumns + `
FROM properties p
WHERE p.seller_id = ?
ORDER BY p.id
`

const getPropertySQL = `SELECT` + propertyColumns + `
FROM properties p
WHERE p.id = ?
`

const listSellerIDsSQL = `
SELECT DISTINCT seller_id
FROM properties
ORDER BY seller_id
`

const findSellerByLoginSQL = `
SELECT id, login_id, display_name, is_admin
FROM sellers
WHERE login_id = ?
`
