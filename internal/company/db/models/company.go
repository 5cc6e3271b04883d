// Package models contains the table models for the SQL-backed registry,
// configured to work using GORM as the ORM.
package models

// Company is a row in the companies table. Seq records insertion order.
type Company struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement"`
	CompanyID string `gorm:"size:64;uniqueIndex"`
	Name      string `gorm:"uniqueIndex"`
}

// Employee is a row in the employees table, owned by a Company through CompanyID.
type Employee struct {
	Seq        uint   `gorm:"primaryKey;autoIncrement"`
	EmployeeID string `gorm:"size:64;uniqueIndex"`
	CompanyID  string `gorm:"size:64;index"`
	Name       string
	Salary     int
}
