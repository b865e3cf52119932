package types

// Format identifies one of the recognized document formats.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXLSX
	FormatPDF
	FormatDOCX
)

// Formats lists every recognized format in a stable order.
var Formats = []Format{FormatCSV, FormatXLSX, FormatPDF, FormatDOCX}

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// Ext returns the file extension including the leading dot.
func (f Format) Ext() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + f.String()
}

func (f Format) MimeType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// CanImport reports whether documents of this format can be read into a table.
func (f Format) CanImport() bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatPDF, FormatDOCX:
		return true
	default:
		return false
	}
}

// CanExport reports whether a table can be written in this format.
func (f Format) CanExport() bool {
	switch f {
	case FormatXLSX, FormatPDF, FormatDOCX:
		return true
	default:
		return false
	}
}
