package models

import (
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewIDs(t *testing.T) {
	companyID := NewCompanyID()
	assert.True(t, strings.HasPrefix(companyID, "C"))
	_, err := uuid.Parse(strings.TrimPrefix(companyID, "C"))
	assert.NoError(t, err)

	employeeID := NewEmployeeID()
	assert.True(t, strings.HasPrefix(employeeID, "E"))
	_, err = uuid.Parse(strings.TrimPrefix(employeeID, "E"))
	assert.NoError(t, err)

	assert.NotEqual(t, companyID, NewCompanyID())
}

func TestCompany_Equal(t *testing.T) {
	benz := &Company{Name: "Benz", CompanyID: NewCompanyID()}
	other := &Company{Name: "Benz", CompanyID: NewCompanyID(), Employees: []Employee{{Name: "ZhangSan"}}}

	assert.True(t, benz.Equal(other), "identifier and employees are ignored")
	assert.False(t, benz.Equal(&Company{Name: "benz"}), "names are case-sensitive")
	assert.False(t, benz.Equal(nil))

	var none *Company
	assert.True(t, none.Equal(nil))
}

func TestEmployee_Equal(t *testing.T) {
	zhang := &Employee{Name: "ZhangSan", Salary: 10000, EmployeeID: NewEmployeeID()}

	assert.True(t, zhang.Equal(&Employee{Name: "ZhangSan", Salary: 10000}))
	assert.False(t, zhang.Equal(&Employee{Name: "ZhangSan", Salary: 20000}))
	assert.False(t, zhang.Equal(&Employee{Name: "LiSi", Salary: 10000}))
}

func TestCompany_Clone(t *testing.T) {
	original := &Company{Name: "Benz", CompanyID: "C1", Employees: []Employee{{Name: "ZhangSan", Salary: 1}}}

	clone := original.Clone()
	clone.Employees[0].Name = "LiSi"
	clone.Employees = append(clone.Employees, Employee{Name: "WangWu"})

	assert.Equal(t, "ZhangSan", original.Employees[0].Name)
	assert.Len(t, original.Employees, 1)
	assert.NotNil(t, (&Company{}).Clone().Employees, "clone always carries a non-nil slice")
}

func TestPage_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		page   Page
		total  int
		start  int
		end    int
		wantOK bool
	}{
		{name: "first page", page: Page{Size: 2, Index: 1}, total: 3, start: 0, end: 2, wantOK: true},
		{name: "last partial page", page: Page{Size: 2, Index: 2}, total: 3, start: 2, end: 3, wantOK: true},
		{name: "past the end", page: Page{Size: 2, Index: 3}, total: 3},
		{name: "empty listing", page: Page{Size: 5, Index: 1}, total: 0},
		{name: "zero index", page: Page{Size: 2, Index: 0}, total: 3},
		{name: "negative size", page: Page{Size: -1, Index: 1}, total: 3},
		{name: "start overflows", page: Page{Size: math.MaxInt/2 + 1, Index: 3}, total: 3},
		{name: "huge index", page: Page{Size: 2, Index: math.MaxInt}, total: 3},
		{name: "huge size", page: Page{Size: math.MaxInt, Index: 1}, total: 3, start: 0, end: 3, wantOK: true},
		{name: "exact last page", page: Page{Size: 3, Index: 1}, total: 3, start: 0, end: 3, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.page.Bounds(tt.total)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.start, start)
				assert.Equal(t, tt.end, end)
			}
		})
	}
}
