package storage

// The set of file-reference columns is enumerated statically and consumed by
// PathCollector to build its union query. Adding a new document column to the
// schema means adding it here; nothing is discovered at runtime.

// assetFileColumns lists every file-reference column on the assets table.
var assetFileColumns = []string{
	"purchase_doc_path",
	"datasheet_path",
	"manual_path",
	"extra_docs_path",
	"image_path",
}

// eventTable describes a child event table joined to assets on asset_id.
type eventTable struct {
	Name        string
	FileColumns []string
}

// eventTables lists the event-record tables that carry file references:
// calibrations, maintenances and verifications.
var eventTables = []eventTable{
	{Name: "calibrations", FileColumns: []string{"certificate_path", "confirmation_path", "intervals_doc_path"}},
	{Name: "maintenances", FileColumns: []string{"report_path", "attachment_path"}},
	{Name: "verifications", FileColumns: []string{"report_path"}},
}
