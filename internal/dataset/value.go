package dataset

// Value is an attribute value. The set of implementations is closed:
// IntValue, FloatValue, StringValue and ArrayValue. The hashing engine
// dispatches on the concrete type, so attribute normalization never has to
// inspect arbitrary dynamic values.
type Value interface {
	isValue()
}

// IntValue is an integer-typed attribute value.
type IntValue int64

// FloatValue is a floating-point attribute value.
type FloatValue float64

// StringValue is a textual attribute value.
type StringValue string

// ArrayValue is an array-valued attribute. Arrays are not inlined into
// canonical metadata text; they are replaced by their own array digest.
type ArrayValue struct {
	Array *Array
}

func (IntValue) isValue()    {}
func (FloatValue) isValue()  {}
func (StringValue) isValue() {}
func (ArrayValue) isValue()  {}
