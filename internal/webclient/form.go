package webclient

import (
	"context"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/desertthunder/musik/internal/shared"
)

const (
	ImportEndpoint = "/api/importmedia/directory"

	PathField      = "path"
	ErrorRegionTop = "validate-error-top"

	MessageEmptyPath = "Please provide a valid path to continue."
	MessageAccepted  = "great success!"
)

// SubmitEvent is a form submission delivered by the host.
type SubmitEvent interface {
	PreventDefault()
}

// FormView is the render target of the import form.
type FormView interface {
	Value(name string) string
	Values() url.Values               // Values returns every field of the form
	ClearErrors()                     // ClearErrors empties and hides every validation region
	ShowError(region, message string) // ShowError fills region and makes the validation regions visible
	Focus(field string)
	Alert(message string)
}

// OutcomeKind classifies the result of a submission.
type OutcomeKind int

const (
	Invalid OutcomeKind = iota
	Accepted
	Rejected
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome reports what a submission did. It never gates a later submission.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Body       string
	Err        error
}

type importRequest struct {
	Path string `validate:"required"`
}

// ImportForm submits a directory path to the import endpoint.
type ImportForm struct {
	requester Requester
	view      FormView
	validate  *validator.Validate
	logger    *log.Logger
}

// NewImportForm creates an import form handler rendering into view.
func NewImportForm(requester Requester, view FormView, logger *log.Logger) *ImportForm {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ImportForm{
		requester: requester,
		view:      view,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    shared.WithLogger(logger, "component", "import-form"),
	}
}

// Submit handles one submission of the form.
//
// An empty path shows an inline error and sends nothing. Otherwise every field is
// posted to [ImportEndpoint]. Success shows an alert, a 404 alerts the response
// body, and every other failure is reported only through the returned [Outcome].
func (f *ImportForm) Submit(ctx context.Context, event SubmitEvent) Outcome {
	event.PreventDefault()
	f.view.ClearErrors()

	req := importRequest{Path: f.view.Value(PathField)}
	if err := f.validate.Struct(req); err != nil {
		f.view.ShowError(ErrorRegionTop, MessageEmptyPath)
		f.view.Focus(PathField)
		return Outcome{Kind: Invalid, Err: err}
	}

	resp, err := f.requester.PostForm(ctx, ImportEndpoint, f.view.Values())
	if err != nil {
		f.logger.Debug("import request failed", "path", req.Path, "error", err)
		return Outcome{Kind: Failed, Err: err}
	}

	if resp.OK() {
		f.view.Alert(MessageAccepted)
		return Outcome{Kind: Accepted, StatusCode: resp.StatusCode}
	}

	body := string(resp.Body)
	if resp.StatusCode == 404 {
		f.view.Alert(body)
	} else {
		f.logger.Debug("import request rejected", "path", req.Path, "status", resp.StatusCode)
	}
	return Outcome{Kind: Rejected, StatusCode: resp.StatusCode, Body: body}
}
