package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ettle/strcase"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrInvalidOrder is returned when a candidate is missing required fields.
	ErrInvalidOrder = errors.New("dashboard: invalid order")
	// ErrDuplicateOrderID is returned when an order id is already present in the list.
	ErrDuplicateOrderID = errors.New("dashboard: duplicate order id")
)

// OrderStatus is the lifecycle label shown in the order table.
type OrderStatus string

const (
	OrderInProgress OrderStatus = "In Progress"
	OrderComplete   OrderStatus = "Complete"
	OrderPending    OrderStatus = "Pending"
	OrderApproved   OrderStatus = "Approved"
	OrderRejected   OrderStatus = "Rejected"
)

var orderStatuses = []OrderStatus{OrderInProgress, OrderComplete, OrderPending, OrderApproved, OrderRejected}

// OrderStatuses returns every known status in display order.
func OrderStatuses() []OrderStatus {
	return cloneSlice(orderStatuses)
}

// Valid reports whether the status is one of the known labels.
func (s OrderStatus) Valid() bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus accepts display labels and their snake/kebab/camel forms.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	key := strcase.ToSnake(strings.TrimSpace(raw))
	if key == "" {
		return "", fmt.Errorf("%w: empty status", ErrInvalidOrder)
	}
	for _, known := range orderStatuses {
		if strcase.ToSnake(string(known)) == key {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, raw)
}

// OrderUser is the customer attached to an order.
type OrderUser struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Order is a row of the order table. Orders are immutable once created.
type Order struct {
	ID      string      `json:"id" yaml:"id"`
	User    OrderUser   `json:"user" yaml:"user"`
	Project string      `json:"project" yaml:"project"`
	Address string      `json:"address" yaml:"address"`
	Date    string      `json:"date" yaml:"date"`
	Status  OrderStatus `json:"status" yaml:"status"`
}

// OrderCandidate is an order submitted without an id.
type OrderCandidate struct {
	User    OrderUser   `json:"user" yaml:"user"`
	Project string      `json:"project" yaml:"project" validate:"required"`
	Address string      `json:"address" yaml:"address" validate:"required"`
	Date    string      `json:"date,omitempty" yaml:"date,omitempty"`
	Status  OrderStatus `json:"status" yaml:"status" validate:"required,order_status"`
}

// Candidate returns the order's fields without its id.
func (o Order) Candidate() OrderCandidate {
	return OrderCandidate{
		User:    o.User,
		Project: o.Project,
		Address: o.Address,
		Date:    o.Date,
		Status:  o.Status,
	}
}

// DefaultOrderDate labels orders created without an explicit date.
const DefaultOrderDate = "Just now"

var (
	orderValidatorOnce sync.Once
	orderValidator     *validator.Validate
)

func candidateValidator() *validator.Validate {
	orderValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return OrderStatus(fl.Field().String()).Valid()
		})
		orderValidator = v
	})
	return orderValidator
}

// Normalized returns a copy with surrounding whitespace trimmed.
func (c OrderCandidate) Normalized() OrderCandidate {
	c.User.Name = strings.TrimSpace(c.User.Name)
	c.User.Avatar = strings.TrimSpace(c.User.Avatar)
	c.Project = strings.TrimSpace(c.Project)
	c.Address = strings.TrimSpace(c.Address)
	c.Date = strings.TrimSpace(c.Date)
	return c
}

// Validate checks the candidate's required fields and status label.
// Whitespace-only values count as missing.
func (c OrderCandidate) Validate() error {
	err := candidateValidator().Struct(c.Normalized())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		problems = append(problems, fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOrder, strings.Join(problems, "; "))
}

// NewOrder validates the candidate and builds an order with the given id.
func NewOrder(id string, candidate OrderCandidate) (Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Order{}, fmt.Errorf("%w: id is required", ErrInvalidOrder)
	}
	candidate = candidate.Normalized()
	if err := candidate.Validate(); err != nil {
		return Order{}, err
	}
	date := candidate.Date
	if date == "" {
		date = DefaultOrderDate
	}
	return Order{
		ID:      id,
		User:    candidate.User,
		Project: candidate.Project,
		Address: candidate.Address,
		Date:    date,
		Status:  candidate.Status,
	}, nil
}

// IDGenerator hands out order ids.
type IDGenerator interface {
	NextID() string
}

// IDObserver is implemented by generators that must skip ids already in use.
type IDObserver interface {
	Observe(ids ...string)
}

// SequentialIDs generates "<prefix><n>" ids continuing after the highest observed number.
type SequentialIDs struct {
	prefix string
	last   atomic.Int64
}

// NewSequentialIDs returns a generator whose first id is prefix+start.
func NewSequentialIDs(prefix string, start int64) *SequentialIDs {
	gen := &SequentialIDs{prefix: prefix}
	gen.last.Store(start - 1)
	return gen
}

// NextID implements IDGenerator.
func (g *SequentialIDs) NextID() string {
	return g.prefix + strconv.FormatInt(g.last.Add(1), 10)
}

// Observe advances the counter past any id carrying the same prefix.
func (g *SequentialIDs) Observe(ids ...string) {
	for _, id := range ids {
		raw, ok := strings.CutPrefix(id, g.prefix)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		for {
			current := g.last.Load()
			if n <= current || g.last.CompareAndSwap(current, n) {
				break
			}
		}
	}
}

// UUIDGenerator produces random UUID ids.
type UUIDGenerator struct{}

// NextID implements IDGenerator.
func (UUIDGenerator) NextID() string {
	return uuid.NewString()
}

const maxIDAttempts = 16

// InsertOrder assigns a fresh id to the candidate and prepends the order.
func InsertOrder(orders []Order, candidate OrderCandidate, ids IDGenerator) ([]Order, Order, error) {
	if ids == nil {
		return orders, Order{}, errors.New("dashboard: id generator is required")
	}
	if observer, ok := ids.(IDObserver); ok {
		observer.Observe(orderIDs(orders)...)
	}
	for range maxIDAttempts {
		id := ids.NextID()
		if containsOrderID(orders, id) {
			continue
		}
		order, err := NewOrder(id, candidate)
		if err != nil {
			return orders, Order{}, err
		}
		return prepend(orders, order), order, nil
	}
	return orders, Order{}, fmt.Errorf("%w: generator kept colliding", ErrDuplicateOrderID)
}

// PrependOrder places a built order at the head of the list.
func PrependOrder(orders []Order, order Order) ([]Order, error) {
	if strings.TrimSpace(order.ID) == "" {
		return orders, fmt.Errorf("%w: id is required", ErrInvalidOrder)
	}
	if containsOrderID(orders, order.ID) {
		return orders, fmt.Errorf("%w: %s", ErrDuplicateOrderID, order.ID)
	}
	return prepend(orders, order), nil
}

func prepend(orders []Order, order Order) []Order {
	out := make([]Order, 0, len(orders)+1)
	out = append(out, order)
	return append(out, orders...)
}

func containsOrderID(orders []Order, id string) bool {
	for _, order := range orders {
		if order.ID == id {
			return true
		}
	}
	return false
}

func orderIDs(orders []Order) []string {
	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	return ids
}

// Tone is the badge color family used to render a status.
func (s OrderStatus) Tone() string {
	switch s {
	case OrderInProgress:
		return "blue"
	case OrderComplete:
		return "emerald"
	case OrderPending:
		return "sky"
	case OrderApproved:
		return "amber"
	}
	return "gray"
}
