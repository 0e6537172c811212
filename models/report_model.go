package models

// CatalogSummary lists what can be analysed, for pickers in the reports screen.
type CatalogSummary struct {
	Items          []string `json:"items"`
	Categories     []string `json:"categories"`
	CategoryGroups []string `json:"category_groups"`
	ItemCount      int      `json:"item_count"`
	SalesCount     int      `json:"sales_count"`
}

// TargetMarginRequest is the body of POST /analysis/target-margin.
type TargetMarginRequest struct {
	Item   string  `json:"item"`
	Margin float64 `json:"margin"`
}

// SimulateRequest is the body of POST /analysis/simulate.
type SimulateRequest struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
}

// OptimumRequest is the body of POST /analysis/optimum. Step is optional.
type OptimumRequest struct {
	Item string  `json:"item"`
	Step float64 `json:"step"`
}

// CompareRequest is the body of POST /analysis/compare. Days is optional.
type CompareRequest struct {
	Scope GroupScope `json:"scope"`
	Name  string     `json:"name"`
	Days  int        `json:"days"`
}
