package dto

// CreateItemRequest creates a catalog item.
type CreateItemRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Category      string `json:"category"`
	UnitOfMeasure string `json:"unitOfMeasure"`
	MinimumStock  int64  `json:"minimumStock"`
	MaximumStock  int64  `json:"maximumStock"`
	ReorderLevel  int64  `json:"reorderLevel"`
}

// UpdateItemRequest updates a catalog item.
type UpdateItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Category      string `json:"category"`
	UnitOfMeasure string `json:"unitOfMeasure"`
	MinimumStock  int64  `json:"minimumStock"`
	MaximumStock  int64  `json:"maximumStock"`
	ReorderLevel  int64  `json:"reorderLevel"`
	IsActive      *bool  `json:"isActive"`
}

// ItemListQuery narrows item listing.
type ItemListQuery struct {
	ListQuery
	Category   string `form:"category"`
	ActiveOnly bool   `form:"activeOnly"`
}

// CreateSupplierRequest creates a supplier.
type CreateSupplierRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// UpdateSupplierRequest updates a supplier.
type UpdateSupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// CreateCustomerRequest creates a customer.
type CreateCustomerRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// UpdateCustomerRequest updates a customer.
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}
