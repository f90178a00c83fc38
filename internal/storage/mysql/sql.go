package mysql

const upsertOptionSQL = `
INSERT INTO options (option_name, option_value)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE option_value = VALUES(option_value)`

const getOptionSQL = `
SELECT option_value FROM options WHERE option_name = ?`

const deleteOptionSQL = `
DELETE FROM options WHERE option_name = ?`

const allOptionsSQL = `
SELECT option_name, option_value FROM options`

const insertScrapeSQL = `
INSERT INTO scrape_log (business_url, status, review_count, detail)
VALUES (?, ?, ?, ?)`

const recentScrapesSQL = `
SELECT id, business_url, status, review_count, COALESCE(detail, ''), created_at
FROM scrape_log
ORDER BY id DESC
LIMIT ?`
