package types

// Property is a named value carried by behaviors and property sets.
// Properties may nest.
type Property struct {
	Name             string       `json:"name"`
	ValueDescription string       `json:"value_description,omitempty"`
	TemplateValue    string       `json:"template_value,omitempty"`
	Invocations      []Invocation `json:"invocations,omitempty"`
	Properties       []Property   `json:"properties,omitempty"`
}

// Clone returns a deep copy of the property and everything below it.
func (p Property) Clone() Property {
	p.Invocations = cloneInvocations(p.Invocations)
	p.Properties = cloneProperties(p.Properties)
	return p
}

// InvocationParameter describes one input or output of an invocation message.
type InvocationParameter struct {
	Name             string `json:"name"`
	ValueDescription string `json:"value_description,omitempty"`
}

// InvocationMessage is the request or response half of an invocation.
type InvocationMessage struct {
	ControlMessageName string                `json:"control_message_name"`
	Description        string                `json:"description,omitempty"`
	Parameters         []InvocationParameter `json:"parameters,omitempty"`
}

// Invocation is an operation a behavior or property exposes.
type Invocation struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Request     *InvocationMessage `json:"request,omitempty"`
	Response    *InvocationMessage `json:"response,omitempty"`
}

// Clone returns a deep copy of the invocation.
func (i Invocation) Clone() Invocation {
	i.Request = cloneMessage(i.Request)
	i.Response = cloneMessage(i.Response)
	return i
}

func cloneMessage(m *InvocationMessage) *InvocationMessage {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Parameters = cloneSlice(m.Parameters)
	return &cp
}

func cloneProperties(ps []Property) []Property {
	if ps == nil {
		return nil
	}
	out := make([]Property, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

func cloneInvocations(is []Invocation) []Invocation {
	if is == nil {
		return nil
	}
	out := make([]Invocation, len(is))
	for i, inv := range is {
		out[i] = inv.Clone()
	}
	return out
}
