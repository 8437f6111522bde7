package types

// OrderIdentifier addresses an order by primary key.
type OrderIdentifier struct {
	ID int64
}

// CreateOrderInput carries the fields required to create an order.
type CreateOrderInput struct {
	Name      string
	ServiceID int64
}

// UpdateOrderInput carries a partial update. Nil fields are left unchanged.
type UpdateOrderInput struct {
	ID        int64
	Name      *string
	ServiceID *int64
	// Decode, when set, supplies Name and ServiceID once the order has been
	// found, so an unknown order fails before the payload is read.
	Decode func() (UpdateOrderInput, error)
}

// Empty reports whether the update touches no field.
func (in UpdateOrderInput) Empty() bool {
	return in.Name == nil && in.ServiceID == nil
}

// Resolve runs Decode, if set, and returns the input with its fields filled.
// The ID is never taken from the decoded value.
func (in UpdateOrderInput) Resolve() (UpdateOrderInput, error) {
	if in.Decode == nil {
		return in, nil
	}
	decoded, err := in.Decode()
	if err != nil {
		return in, err
	}
	return UpdateOrderInput{ID: in.ID, Name: decoded.Name, ServiceID: decoded.ServiceID}, nil
}
