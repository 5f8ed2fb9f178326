package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the ingestion ledger.
	DatabaseBackend string

	// MergeAction represents what a merge did with an ingested record.
	MergeAction string

	// MatchKind represents how an attribution match was found.
	MatchKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv" // default
	TextOut    OutputMode = "text"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All ledger backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All merge actions.
const (
	InsertAction  MergeAction = "insert"
	ReplaceAction MergeAction = "replace"
)

// All attribution match kinds.
const (
	NoMatch        MatchKind = ""
	ComponentMatch MatchKind = "component"
	PathMatch      MatchKind = "path"
)

// Well-known record fields.
const (
	SourcePathField  = "source_path"
	RawField         = "_raw"
	CalibBucketField = "calib_images"
)

// DefaultIdentityColumn is the CSV column holding the attributed user.
const DefaultIdentityColumn = "X-ray User"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid ledger backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultCandidateFields are the top-level record fields that hold file-system paths.
var DefaultCandidateFields = []string{
	"file_path",
	"txrm_file_path",
	"file_hyperlink",
	SourcePathField,
}

// DefaultBucketFields are the calibration bucket fields that hold file-system paths.
var DefaultBucketFields = []string{
	"MGainImg",
	"OffsetImg",
	"GainImg",
	"DefPixelImg",
	"calib_folder_path",
}

// DefaultPreferredColumns is the leading column order of the CSV export.
var DefaultPreferredColumns = []string{
	"file_name",
	"file_hyperlink",
	"file_path",
	"txrm_file_path",
	"start_time",
	"end_time",
	"ct_voxel_size_um",
	"ct_objective",
	"ct_number_images",
	"xray_tube_voltage",
	"xray_tube_current",
	"xray_tube_power",
	"xray_filter",
	"image_width_pixels",
	"image_height_pixels",
	"scan_time",
	"sha256",
	SourcePathField,
}
