// Package validation evaluates ordered per-field rule lists and collects every
// violation as a structured FieldError.
//
// Each Rule is checked on its own, so a field that breaks two rules reports two
// errors and Errors.Count is the sum across all rules.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`(?i)\A[\w+\-.]+@[a-z\d\-]+(\.[a-z\d\-]+)*\.[a-z]+\z`)

// ValidEmail reports whether email has the shape user@host.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// FieldError is one violated rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// FullMessage prefixes the message with the humanized field name,
// e.g. "Password confirmation doesn't match Password".
func (e FieldError) FullMessage() string {
	return Humanize(e.Field) + " " + e.Message
}

// Errors is the ordered list of violations found for one submission.
type Errors []FieldError

func (e Errors) Error() string {
	return e.Summary()
}

// Count returns the number of violations.
func (e Errors) Count() int {
	return len(e)
}

// Summary renders "The form contains N error(s).".
func (e Errors) Summary() string {
	if len(e) == 1 {
		return "The form contains 1 error."
	}
	return fmt.Sprintf("The form contains %d errors.", len(e))
}

// FullMessages returns every violation as a sentence.
func (e Errors) FullMessages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.FullMessage())
	}
	return out
}

// On returns the violations recorded against field.
func (e Errors) On(field string) []FieldError {
	var out []FieldError
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// Has reports whether field broke rule.
func (e Errors) Has(field, rule string) bool {
	for _, fe := range e {
		if fe.Field == field && fe.Rule == rule {
			return true
		}
	}
	return false
}

// Single builds an Errors with one violation.
func Single(field, rule, message string) Errors {
	return Errors{{Field: field, Rule: rule, Message: message}}
}

// Humanize turns "password_confirmation" into "Password confirmation".
func Humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Rule is a single check evaluated with a validator tag.
type Rule struct {
	Name    string
	Tag     string
	Message string

	compare bool
	other   interface{}
}

// Presence fails on empty or whitespace-only strings.
func Presence() Rule {
	return Rule{Name: "presence", Tag: "notblank", Message: "can't be blank"}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int) Rule {
	return Rule{
		Name:    "max_length",
		Tag:     fmt.Sprintf("max=%d", n),
		Message: fmt.Sprintf("is too long (maximum is %d characters)", n),
	}
}

// MinLength fails when the value has fewer than n characters.
func MinLength(n int) Rule {
	return Rule{
		Name:    "min_length",
		Tag:     fmt.Sprintf("min=%d", n),
		Message: fmt.Sprintf("is too short (minimum is %d characters)", n),
	}
}

// EmailFormat fails when the value is not an email address.
func EmailFormat() Rule {
	return Rule{Name: "format", Tag: "email_format", Message: "is invalid"}
}

// Confirmation fails when the value differs from original. label names the
// original field in the message.
func Confirmation(original interface{}, label string) Rule {
	return Rule{
		Name:    "confirmation",
		Tag:     "eqfield",
		Message: "doesn't match " + label,
		compare: true,
		other:   original,
	}
}

// Validator owns the underlying go-playground validator and its custom tags.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the "notblank" and "email_format" tags registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("email_format", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates struct tags. It backs echo's request validation.
func (v *Validator) Struct(i interface{}) error {
	return v.validate.Struct(i)
}

// Pipeline starts an empty rule pipeline.
func (v *Validator) Pipeline() *Pipeline {
	return &Pipeline{v: v}
}

func (v *Validator) check(value interface{}, r Rule) bool {
	if r.compare {
		return v.validate.VarWithValue(value, r.other, r.Tag) == nil
	}
	return v.validate.Var(value, r.Tag) == nil
}

// Pipeline accumulates violations across fields in evaluation order.
type Pipeline struct {
	v    *Validator
	errs Errors
}

// Field evaluates every rule against value, recording one FieldError per
// failing rule.
func (p *Pipeline) Field(name string, value interface{}, rules ...Rule) *Pipeline {
	for _, r := range rules {
		if !p.v.check(value, r) {
			p.errs = append(p.errs, FieldError{Field: name, Rule: r.Name, Message: r.Message})
		}
	}
	return p
}

// Add records a violation found outside the rule set, such as a uniqueness
// lookup.
func (p *Pipeline) Add(field, rule, message string) *Pipeline {
	p.errs = append(p.errs, FieldError{Field: field, Rule: rule, Message: message})
	return p
}

// Failed reports whether field has any violation so far.
func (p *Pipeline) Failed(field string) bool {
	return len(p.errs.On(field)) > 0
}

// Err returns the collected Errors, or nil when every rule passed.
func (p *Pipeline) Err() error {
	if len(p.errs) == 0 {
		return nil
	}
	out := make(Errors, len(p.errs))
	copy(out, p.errs)
	return out
}
