// Package sqlite implements the tabular note store on SQLite.
// This file holds the schema DDL, applied idempotently on every Attach.
package sqlite

// Schema DDL for all tables.
const (
	createWorkbooks = `CREATE TABLE IF NOT EXISTS workbooks (
    workbook_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL
);`

	createSheets = `CREATE TABLE IF NOT EXISTS sheets (
    sheet_id TEXT PRIMARY KEY,
    workbook_id TEXT NOT NULL,
    name TEXT NOT NULL,
    frozen_rows INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    UNIQUE (workbook_id, name),
    FOREIGN KEY (workbook_id) REFERENCES workbooks(workbook_id) ON DELETE CASCADE
);`

	createCells = `CREATE TABLE IF NOT EXISTS cells (
    sheet_id TEXT NOT NULL,
    row_num INTEGER NOT NULL,
    col_num INTEGER NOT NULL,
    value TEXT NOT NULL DEFAULT '',
    links TEXT,
    wrap INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (sheet_id, row_num, col_num),
    FOREIGN KEY (sheet_id) REFERENCES sheets(sheet_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxSheetsWorkbook = `CREATE INDEX IF NOT EXISTS idx_sheets_workbook ON sheets(workbook_id);`
	idxCellsColumn    = `CREATE INDEX IF NOT EXISTS idx_cells_column ON cells(sheet_id, col_num, row_num);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createWorkbooks,
	createSheets,
	createCells,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSheetsWorkbook,
	idxCellsColumn,
}
