package casescrape

// Column names of the case-detail export, in output order.
const (
	ColumnCategory     = "category"
	ColumnSubcategory  = "subcategory"
	ColumnCaseTitle    = "case_title"
	ColumnCaseInfo     = "case_info"
	ColumnClinicalInfo = "clinical_info"
	ColumnPatientSex   = "patient_sex"
	ColumnPatientAge   = "patient_age"
	ColumnBodyPart     = "body_part"
	ColumnImagePath    = "image_path"
	ColumnImageCaption = "image_caption"
)

// CaseColumns returns the fixed column order of the case-detail export.
func CaseColumns() []string {
	return []string{
		ColumnCategory,
		ColumnSubcategory,
		ColumnCaseTitle,
		ColumnCaseInfo,
		ColumnClinicalInfo,
		ColumnPatientSex,
		ColumnPatientAge,
		ColumnBodyPart,
		ColumnImagePath,
		ColumnImageCaption,
	}
}

// Patient-detail labels projected into dedicated columns.
const (
	LabelSex      = "Sex"
	LabelAge      = "Age"
	LabelBodyPart = "Body part"
)

// Ancestry locates a case in the site hierarchy.
type Ancestry struct {
	Category    string
	Subcategory string
	Group       string
}

// OutputRow is a flattened projection of one case, or one image of a case,
// together with its ancestry. Rows are never mutated after being written.
type OutputRow struct {
	Category     string
	Subcategory  string
	Group        string
	CaseTitle    string
	CaseInfo     string
	ClinicalInfo string
	PatientSex   string
	PatientAge   string
	BodyPart     string
	ImagePath    string
	ImageCaption string
	SourceURL    string
}

// Value returns the row's value for the named column, or an empty string
// for an unknown column.
func (r *OutputRow) Value(column string) string {
	switch column {
	case ColumnCategory:
		return r.Category
	case ColumnSubcategory:
		return r.Subcategory
	case ColumnCaseTitle:
		return r.CaseTitle
	case ColumnCaseInfo:
		return r.CaseInfo
	case ColumnClinicalInfo:
		return r.ClinicalInfo
	case ColumnPatientSex:
		return r.PatientSex
	case ColumnPatientAge:
		return r.PatientAge
	case ColumnBodyPart:
		return r.BodyPart
	case ColumnImagePath:
		return r.ImagePath
	case ColumnImageCaption:
		return r.ImageCaption
	}
	return ""
}

// Values projects the row onto columns in order.
func (r *OutputRow) Values(columns []string) []string {
	values := make([]string, len(columns))
	for i, c := range columns {
		values[i] = r.Value(c)
	}
	return values
}

// CaseRows flattens a case into output rows, one per image. A case without
// images still yields a single row with empty image fields.
func CaseRows(ancestry Ancestry, c *Case) []*OutputRow {
	base := OutputRow{
		Category:     ancestry.Category,
		Subcategory:  ancestry.Subcategory,
		Group:        ancestry.Group,
		CaseTitle:    c.Title,
		CaseInfo:     c.Info(),
		ClinicalInfo: c.ClinicalInfo,
		PatientSex:   c.Detail(LabelSex),
		PatientAge:   c.Detail(LabelAge),
		BodyPart:     c.Detail(LabelBodyPart),
		SourceURL:    c.SourceURL,
	}

	if len(c.Images) == 0 {
		row := base
		return []*OutputRow{&row}
	}

	rows := make([]*OutputRow, 0, len(c.Images))
	for _, img := range c.Images {
		row := base
		row.ImagePath = img.LocalPath
		row.ImageCaption = img.Caption
		rows = append(rows, &row)
	}
	return rows
}
