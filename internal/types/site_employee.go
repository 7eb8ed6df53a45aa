package types

type SiteEmployee struct {
	SiteID     int64 `gorm:"column:site_id;primaryKey" json:"site_id"`
	EmployeeID int64 `gorm:"column:employee_id;primaryKey" json:"employee_id"`
}

func (SiteEmployee) TableName() string { return "app_site_employees" }
