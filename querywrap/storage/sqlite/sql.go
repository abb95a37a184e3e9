package sqlite

import "github.com/nonibytes/querywrap/querywrap/storage"

var SQLTemplates = storage.SQL{
	CountRows:   "SELECT COUNT(*) FROM %s%s",
	SelectPage:  "SELECT %s FROM %s%s ORDER BY %s LIMIT %s OFFSET %s",
	InsertRow:   "INSERT INTO %s(%s) VALUES(%s)",
	CreateTable: "CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
	SelectRow:   "SELECT %s FROM %s%s",
	UpdateRows:  "UPDATE %s SET %s%s",
	DeleteRows:  "DELETE FROM %s%s",
}
