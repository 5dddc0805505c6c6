// Package validation holds the field checks shared by the order, reservation
// and contact forms. Every check is a pure function returning a Result; forms
// compose them and surface the first failure.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinAge        = 18
	MaxAge        = 120
	MinGuests     = 1
	MaxGuests     = 20
	MinQuantity   = 1
	MaxQuantity   = 10
	MaxNameLength = 100
	MaxMessageLen = 2000
)

var nameRegex = regexp.MustCompile(`^[a-zA-ZæøåÆØÅàáâãäçèéêëìíîïñòóôõöùúûüýÿ\s'\-]+$`)

// Result is the outcome of a single field check
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func ok() Result {
	return Result{Valid: true}
}

func fail(reason string) Result {
	return Result{Valid: false, Error: reason}
}

// Age requires an integer between MinAge and MaxAge
func Age(age *float64) Result {
	if age == nil {
		return fail("Alder er påkrævet")
	}
	if !isInteger(*age) {
		return fail("Alder skal være et heltal")
	}
	if *age < MinAge {
		return fail("Du skal være mindst 18 år")
	}
	if *age > MaxAge {
		return fail("Ugyldig alder (max 120)")
	}
	return ok()
}

// Email performs a shape check: exactly one @, text before it and a dotted
// domain, with no whitespace anywhere.
func Email(email *string) Result {
	if email == nil || strings.TrimSpace(*email) == "" {
		return fail("Email er påkrævet")
	}

	e := *email
	if strings.TrimSpace(e) != e || strings.Contains(e, " ") {
		return fail("Email må ikke indeholde mellemrum")
	}

	if strings.Count(e, "@") != 1 {
		return fail("Email skal indeholde præcis ét @")
	}

	at := strings.Index(e, "@")
	if at == 0 {
		return fail("Email skal have tekst før @")
	}

	domain := e[at+1:]
	if !strings.Contains(domain, ".") {
		return fail("Email-domæne skal indeholde et punktum")
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fail("Ugyldigt email-domæne")
	}

	return ok()
}

// Message requires non-blank text of at most MaxMessageLen characters
func Message(message *string) Result {
	if message == nil {
		return fail("Besked er påkrævet")
	}
	if strings.TrimSpace(*message) == "" {
		return fail("Besked må ikke være tom")
	}
	if n := utf8.RuneCountInString(*message); n > MaxMessageLen {
		return fail(fmt.Sprintf("Besked er for lang (%d/%d tegn)", n, MaxMessageLen))
	}
	return ok()
}

// Name allows letters (including Danish and accented Latin), whitespace,
// apostrophes and hyphens.
func Name(name *string) Result {
	if name == nil {
		return fail("Navn er påkrævet")
	}
	if strings.TrimSpace(*name) == "" {
		return fail("Navn må ikke være tomt")
	}
	if utf8.RuneCountInString(*name) > MaxNameLength {
		return fail("Navn er for langt (max 100 tegn)")
	}
	if !nameRegex.MatchString(*name) {
		return fail("Navn må kun indeholde bogstaver")
	}
	return ok()
}

// GuestCount requires an integer between MinGuests and MaxGuests
func GuestCount(guests *float64) Result {
	if guests == nil {
		return fail("Antal gæster er påkrævet")
	}
	if !isInteger(*guests) {
		return fail("Antal gæster skal være et heltal")
	}
	if *guests < MinGuests {
		return fail("Mindst 1 gæst påkrævet")
	}
	if *guests > MaxGuests {
		return fail("Max 20 gæster per reservation")
	}
	return ok()
}

// Quantity requires an integer between MinQuantity and MaxQuantity
func Quantity(quantity *float64) Result {
	if quantity == nil {
		return fail("Antal er påkrævet")
	}
	if !isInteger(*quantity) {
		return fail("Antal skal være et heltal")
	}
	if *quantity < MinQuantity {
		return fail("Mindst 1 stk påkrævet")
	}
	if *quantity > MaxQuantity {
		return fail("Max 10 stk per ordre")
	}
	return ok()
}

// Int adapts an integer form value for the numeric checks
func Int(v int) *float64 {
	f := float64(v)
	return &f
}

// String adapts a string form value for the text checks
func String(s string) *string {
	return &s
}

func isInteger(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v)
}
