package finding

// Raw column names found in compliance CSV exports.
const (
	ColProvider               = "PROVIDER"
	ColAccountID              = "ACCOUNTID"
	ColProjectID              = "PROJECTID"
	ColSubscriptionID         = "SUBSCRIPTIONID"
	ColSubscription           = "SUBSCRIPTION"
	ColContext                = "CONTEXT"
	ColTenantID               = "TENANTID"
	ColRegion                 = "REGION"
	ColLocation               = "LOCATION"
	ColNamespace              = "NAMESPACE"
	ColAssessmentDate         = "ASSESSMENTDATE"
	ColRequirementID          = "REQUIREMENTS_ID"
	ColRequirementDescription = "REQUIREMENTS_DESCRIPTION"
	ColSection                = "REQUIREMENTS_ATTRIBUTES_SECTION"
	ColCategory               = "REQUIREMENTS_ATTRIBUTES_CATEGORY"
	ColCategoria              = "REQUIREMENTS_ATTRIBUTES_CATEGORIA"
	ColService                = "REQUIREMENTS_ATTRIBUTES_SERVICE"
	ColProfile                = "REQUIREMENTS_ATTRIBUTES_PROFILE"
	ColLevelOfRisk            = "REQUIREMENTS_ATTRIBUTES_LEVELOFRISK"
	ColWeight                 = "REQUIREMENTS_ATTRIBUTES_WEIGHT"
	ColStatus                 = "STATUS"
	ColStatusExtended         = "STATUSEXTENDED"
	ColResourceID             = "RESOURCEID"
	ColResourceName           = "RESOURCENAME"
	ColCheckID                = "CHECKID"
	ColMuted                  = "MUTED"
)

// RawRecord is one undecoded export row. It is the union of the columns the
// supported provider families emit; RawTable.Columns says which were present.
type RawRecord struct {
	Provider               string `csv:"PROVIDER"`
	AccountID              string `csv:"ACCOUNTID"`
	ProjectID              string `csv:"PROJECTID"`
	SubscriptionID         string `csv:"SUBSCRIPTIONID"`
	Subscription           string `csv:"SUBSCRIPTION"`
	Context                string `csv:"CONTEXT"`
	TenantID               string `csv:"TENANTID"`
	Region                 string `csv:"REGION"`
	Location               string `csv:"LOCATION"`
	Namespace              string `csv:"NAMESPACE"`
	AssessmentDate         string `csv:"ASSESSMENTDATE"`
	RequirementID          string `csv:"REQUIREMENTS_ID"`
	RequirementDescription string `csv:"REQUIREMENTS_DESCRIPTION"`
	Section                string `csv:"REQUIREMENTS_ATTRIBUTES_SECTION"`
	Category               string `csv:"REQUIREMENTS_ATTRIBUTES_CATEGORY"`
	Categoria              string `csv:"REQUIREMENTS_ATTRIBUTES_CATEGORIA"`
	Service                string `csv:"REQUIREMENTS_ATTRIBUTES_SERVICE"`
	Profile                string `csv:"REQUIREMENTS_ATTRIBUTES_PROFILE"`
	LevelOfRisk            string `csv:"REQUIREMENTS_ATTRIBUTES_LEVELOFRISK"`
	Weight                 string `csv:"REQUIREMENTS_ATTRIBUTES_WEIGHT"`
	Status                 string `csv:"STATUS"`
	StatusExtended         string `csv:"STATUSEXTENDED"`
	ResourceID             string `csv:"RESOURCEID"`
	ResourceName           string `csv:"RESOURCENAME"`
	CheckID                string `csv:"CHECKID"`
	Muted                  string `csv:"MUTED"`
}

// RawTable is the parsed content of one source export.
type RawTable struct {
	// Name is the raw framework identifier, normally the source file name.
	Name    string
	Columns map[string]bool
	Records []RawRecord
}

// Has reports whether the table carried the named column.
func (t RawTable) Has(column string) bool {
	return t.Columns[column]
}
