package ports

// Operator is a comparison applied by a Condition.
type Operator string

const (
	OpEq    Operator = "eq"
	OpGte   Operator = "gte"
	OpLte   Operator = "lte"
	OpILike Operator = "ilike" // case-insensitive substring match
)

// Condition is a single field predicate.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Join embeds the single record of From whose ForeignField equals the base
// record's LocalField under As. Records without a match keep As empty.
type Join struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

// Query is a backend-neutral select over one collection. All Conditions must
// hold; when AnyOf is non-empty at least one of its conditions must hold too.
type Query struct {
	Collection string
	Conditions []Condition
	AnyOf      []Condition
	Joins      []Join
	OrderBy    string
	Descending bool
	Limit      int
}

// From starts a query on collection.
func From(collection string) *Query {
	return &Query{Collection: collection}
}

// Where appends a condition.
func (q *Query) Where(field string, op Operator, value any) *Query {
	q.Conditions = append(q.Conditions, Condition{Field: field, Op: op, Value: value})
	return q
}

// Eq is shorthand for Where(field, OpEq, value).
func (q *Query) Eq(field string, value any) *Query {
	return q.Where(field, OpEq, value)
}

// Or appends alternatives of which at least one must hold.
func (q *Query) Or(conds ...Condition) *Query {
	q.AnyOf = append(q.AnyOf, conds...)
	return q
}

// Join appends a one-to-one join.
func (q *Query) Join(from, localField, foreignField, as string) *Query {
	q.Joins = append(q.Joins, Join{From: from, LocalField: localField, ForeignField: foreignField, As: as})
	return q
}

// Order sets the sort field and direction.
func (q *Query) Order(field string, descending bool) *Query {
	q.OrderBy = field
	q.Descending = descending
	return q
}

// Take caps the number of returned records. Zero means no cap.
func (q *Query) Take(n int) *Query {
	q.Limit = n
	return q
}

// Fields returns the distinct condition fields in first-seen order, AnyOf included.
// Tests use it to check which filters reached a query.
func (q Query) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range append(append([]Condition(nil), q.Conditions...), q.AnyOf...) {
		if !seen[c.Field] {
			seen[c.Field] = true
			out = append(out, c.Field)
		}
	}
	return out
}

// Condition returns the first condition on field, if any.
func (q Query) Condition(field string) (Condition, bool) {
	for _, c := range q.Conditions {
		if c.Field == field {
			return c, true
		}
	}
	return Condition{}, false
}
