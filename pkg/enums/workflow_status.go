package enums

// WorkflowStatus is a free-form secondary marker on an application. Unlike the
// stage enum it is not validated on write; the constants below are the values
// the engine itself sets.
type WorkflowStatus string

const (
	WorkflowStatusSubmittedToLenders WorkflowStatus = "submitted_to_lenders"
)

// String implements fmt.Stringer.
func (w WorkflowStatus) String() string {
	return string(w)
}
