// Package gateway implements the submission endpoint behind the quote
// wizard. Anti-abuse checks run cheapest-first and short-circuit: rate limit,
// honeypot, dwell time, field validation, spam phrases. Honeypot and spam
// hits are answered with the same success shape as genuine submissions so
// automated callers cannot learn they were detected.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/contract"
)

const maxBodyBytes = 64 << 10

// Notifier is the notification collaborator boundary. The gateway treats it
// as opaque: one Notify call per accepted submission, no retries.
type Notifier interface {
	// Configured reports whether the collaborator has the credential it
	// needs. An unconfigured notifier is an operator error, not a silent
	// no-op.
	Configured() bool
	Notify(ctx context.Context, sub Submission) error
}

// HTTPError pairs an error with the status code it should map to.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is the canonical HTTPError implementation.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status for the error.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type submissionRequest struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Company          string   `json:"company"`
	Package          string   `json:"package"`
	ProjectType      string   `json:"projectType"`
	PageCount        int      `json:"pageCount"`
	SelectedFeatures []string `json:"selectedFeatures"`
	Timeline         string   `json:"timeline"`
	Budget           string   `json:"budget"`
	Message          string   `json:"message"`
	CurrentWebsite   string   `json:"currentWebsite"`
	ReferenceLinks   []string `json:"referenceLinks"`
	ContactMethod    string   `json:"contactMethod"`
	ReferralSource   string   `json:"referralSource"`
	Honeypot         string   `json:"_honeypot"`
	Timestamp        int64    `json:"_timestamp"`
}

// field resolves a contract property name to its string value. Unknown names
// report ok=false so new required contract fields fail closed.
func (r submissionRequest) field(name string) (value string, ok bool) {
	switch name {
	case "name":
		return r.Name, true
	case "email":
		return r.Email, true
	case "message":
		return r.Message, true
	case "phone":
		return r.Phone, true
	case "company":
		return r.Company, true
	default:
		return "", false
	}
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	opts     Options
	contract *contract.Contract
	limiter  *fixedWindowLimiter
	logger   *zap.Logger
}

// New builds the gateway handler. The API contract is loaded from the
// embedded document unless one was injected.
func New(fns ...OptionFn) (http.Handler, error) {
	return NewWithOptions(NewOptions(fns...))
}

// NewWithOptions builds the gateway handler from a pre-constructed Options
// value. Callers are expected to pass an Options produced by NewOptions so
// defaults apply.
func NewWithOptions(opts Options) (http.Handler, error) {
	opts = NewOptions(func(o *Options) { *o = opts })

	c := opts.Contract
	if c == nil {
		loaded, err := contract.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("gateway: load contract: %w", err)
		}
		c = loaded
	}

	return &handler{
		opts:     opts,
		contract: c,
		limiter:  newFixedWindowLimiter(opts.RateLimit, opts.RateWindow, opts.Now),
		logger:   opts.Logger,
	}, nil
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		writeError(w, StatusError{Code: http.StatusBadRequest})
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, StatusError{
			Code: http.StatusMethodNotAllowed,
			Err:  errors.New("method not allowed"),
		})
		return
	}

	// Stage 1: rate limit. Keyed off the forwarded-for header so no body
	// parsing cost is paid for throttled clients.
	if !h.limiter.Allow(clientKey(r)) {
		writeError(w, StatusError{
			Code: http.StatusTooManyRequests,
			Err:  errors.New("too many attempts, please try again in a minute"),
		})
		return
	}

	var req submissionRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeError(w, StatusError{
			Code: http.StatusBadRequest,
			Err:  errors.New("invalid request body"),
		})
		return
	}

	// Stage 2: honeypot. Answer with the genuine success shape so the
	// automation does not learn it was detected.
	if strings.TrimSpace(req.Honeypot) != "" {
		h.logger.Info("submission dropped",
			zap.String("reason", "honeypot"),
			zap.String("client", clientKey(r)))
		h.writeSuccess(w)
		return
	}

	// Stage 3: dwell time. A human needs at least MinDwell between loading
	// the form and submitting it.
	if req.Timestamp > 0 && h.opts.MinDwell > 0 {
		elapsed := h.opts.Now().Sub(time.UnixMilli(req.Timestamp))
		if elapsed < h.opts.MinDwell {
			writeError(w, StatusError{
				Code: http.StatusBadRequest,
				Err:  errors.New("form submitted too quickly, please try again"),
			})
			return
		}
	}

	// Stage 4: required fields and email shape, both driven by the API
	// contract. Client-side checks are a convenience; this is the boundary.
	if err := h.validate(req); err != nil {
		writeError(w, err)
		return
	}

	// Stage 5: spam phrases, again with a silent accept.
	if matchesSpamPhrase(req.Name, req.Message, h.opts.SpamPhrases) {
		h.logger.Info("submission dropped",
			zap.String("reason", "spam phrase"),
			zap.String("client", clientKey(r)))
		h.writeSuccess(w)
		return
	}

	// Stage 6: configuration guard.
	if h.opts.Notifier == nil || !h.opts.Notifier.Configured() {
		h.logger.Error("notifier not configured, rejecting submission")
		writeError(w, StatusError{
			Code: http.StatusInternalServerError,
			Err:  errors.New(h.opts.UnavailableMsg),
		})
		return
	}

	// Stages 7 and 8: shape and dispatch, exactly once.
	sub := shapeSubmission(req, h.opts.Catalog.Catalog(), uuid.NewString(), h.opts.Now())
	if err := h.opts.Notifier.Notify(r.Context(), sub); err != nil {
		h.logger.Error("notification dispatch failed",
			zap.String("submission_id", sub.ID),
			zap.Error(err))
		writeError(w, StatusError{
			Code: http.StatusInternalServerError,
			Err:  errors.New(h.opts.UnavailableMsg),
		})
		return
	}

	h.logger.Info("submission accepted",
		zap.String("submission_id", sub.ID),
		zap.String("package", sub.Package),
		zap.String("project_type", sub.ProjectType))
	h.writeSuccess(w)
}

func (h *handler) validate(req submissionRequest) error {
	missing := make([]string, 0, 3)
	for _, name := range h.contract.Required() {
		value, ok := req.field(name)
		if !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return StatusError{
			Code: http.StatusBadRequest,
			Err:  fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")),
		}
	}
	if !h.contract.ValidEmail(strings.TrimSpace(req.Email)) {
		return StatusError{
			Code: http.StatusBadRequest,
			Err:  errors.New("please provide a valid email address"),
		}
	}
	return nil
}

func (h *handler) writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: h.opts.SuccessMessage,
	})
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	message := http.StatusText(code)
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	writeJSON(w, code, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}
