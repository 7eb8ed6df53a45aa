package types

// SupplyRequest is the submission payload assembled by the request page.
// It is not persisted; it flows straight into the workbook and the email.
type SupplyRequest struct {
	SiteName     string              `json:"site_name"`
	EmployeeName string              `json:"employee_name"`
	Items        []SupplyRequestItem `json:"items"`
}

type SupplyRequestItem struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	OnHand   int    `json:"on_hand"`
	OrderQty int    `json:"order_qty"`
}
