package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/exampleco/orders-api/internal/domains/orders/application/types"
	orderdomain "github.com/exampleco/orders-api/internal/domains/orders/domain"
	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
	"github.com/exampleco/orders-api/internal/shared/projection"
)

// OrderItem is the serialized line item.
type OrderItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	OrderID    int64  `json:"order_id"`
	CreatedOn  string `json:"created_on"`
	ModifiedOn string `json:"modified_on"`
}

// OrderList is the flat shape used by the list endpoint. It has no
// order_items key at all.
type OrderList struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ServiceID  int64  `json:"service_id"`
	CreatedOn  string `json:"created_on"`
	ModifiedOn string `json:"modified_on"`
}

// OrderDetail is the list shape plus the nested items.
type OrderDetail struct {
	OrderList
	OrderItems []OrderItem `json:"order_items"`
}

// FromDomainOrderList converts a domain order to the list shape.
func FromDomainOrderList(order *orderdomain.Order) OrderList {
	if order == nil {
		return OrderList{}
	}
	return OrderList{
		ID:         order.ID,
		Name:       order.Name,
		ServiceID:  order.ServiceID,
		CreatedOn:  projection.FormatTimestamp(order.CreatedOn),
		ModifiedOn: projection.FormatTimestamp(order.ModifiedOn),
	}
}

// FromDomainOrderLists converts orders to list shapes; never nil.
func FromDomainOrderLists(orders []*orderdomain.Order) []OrderList {
	out := make([]OrderList, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrderList(order))
	}
	return out
}

// FromDomainOrderDetail converts a domain order to the detail shape.
// order_items serializes as [] when the order has no items.
func FromDomainOrderDetail(order *orderdomain.Order) OrderDetail {
	detail := OrderDetail{OrderList: FromDomainOrderList(order), OrderItems: []OrderItem{}}
	if order == nil {
		return detail
	}
	for _, item := range order.Items {
		detail.OrderItems = append(detail.OrderItems, OrderItem{
			ID:         item.ID,
			Name:       item.Name,
			OrderID:    item.OrderID,
			CreatedOn:  projection.FormatTimestamp(item.CreatedOn),
			ModifiedOn: projection.FormatTimestamp(item.ModifiedOn),
		})
	}
	return detail
}

// CreateOrderPayload is the inbound create body. Fields are pointers so a
// missing key can be told apart from a zero value.
type CreateOrderPayload struct {
	Name      *string `json:"name" validate:"required"`
	ServiceID *int64  `json:"service_id" validate:"required"`
}

// UpdateOrderPayload is the inbound update body; every field is optional
// and null means "leave unchanged".
type UpdateOrderPayload struct {
	Name      *string `json:"name"`
	ServiceID *int64  `json:"service_id"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeCreateOrder parses and validates a create body. Missing fields and
// type mismatches are validation errors; malformed JSON is returned as is.
func DecodeCreateOrder(body *string) (types.CreateOrderInput, error) {
	var payload CreateOrderPayload
	if err := decodeBody(body, &payload); err != nil {
		return types.CreateOrderInput{}, err
	}
	if err := validate.Struct(payload); err != nil {
		return types.CreateOrderInput{}, validationError(err)
	}
	return types.CreateOrderInput{Name: *payload.Name, ServiceID: *payload.ServiceID}, nil
}

// DecodeUpdateOrder parses an update body for the order id.
func DecodeUpdateOrder(id int64, body *string) (types.UpdateOrderInput, error) {
	var payload UpdateOrderPayload
	if err := decodeBody(body, &payload); err != nil {
		return types.UpdateOrderInput{}, err
	}
	return types.UpdateOrderInput{ID: id, Name: payload.Name, ServiceID: payload.ServiceID}, nil
}

func decodeBody(body *string, dst any) error {
	if body == nil || strings.TrimSpace(*body) == "" {
		return apierrors.Validation("request body is required")
	}
	err := json.Unmarshal([]byte(*body), dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return apierrors.Wrap(apierrors.KindValidation, err, "request body must be a JSON object")
		}
		return apierrors.Wrap(apierrors.KindValidation, err, typeErr.Field+" must be "+describeKind(typeErr.Type))
	}
	return err
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apierrors.Wrap(apierrors.KindValidation, err, "")
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fe.Field()+" is required")
		default:
			messages = append(messages, fe.Field()+" is invalid")
		}
	}
	return apierrors.Wrap(apierrors.KindValidation, err, strings.Join(messages, "; "))
}

func describeKind(t reflect.Type) string {
	if t == nil {
		return "valid"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a " + t.Kind().String()
	}
}

// Stats is the statistics body: an object of bucket label to count whose
// keys keep the order of the underlying rows.
type Stats []StatsEntry

// StatsEntry is one label/count pair.
type StatsEntry struct {
	Label string
	Count int64
}

// FromOrderStats converts the statistics result; never nil.
func FromOrderStats(stats *types.OrderStats) Stats {
	if stats == nil {
		return Stats{}
	}
	out := make(Stats, 0, len(stats.Buckets))
	for _, b := range stats.Buckets {
		out = append(out, StatsEntry{Label: projection.FormatTimestamp(b.Start), Count: b.Count})
	}
	return out
}

// MarshalJSON writes the entries as one JSON object in slice order.
func (s Stats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
