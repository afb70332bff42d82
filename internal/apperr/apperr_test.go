package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestEveryCodeHasMessages(t *testing.T) {
	for tag, msgs := range catalog {
		for code := range catalog[DefaultTag] {
			_, ok := msgs[code]
			assert.True(t, ok, "%s missing %s", tag, code)
		}
	}
}

func TestErrorsIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("transfer: %w", New(CodeInsufficientFunds, int64(5), int64(10)))

	assert.True(t, errors.Is(err, New(CodeInsufficientFunds)))
	assert.False(t, errors.Is(err, New(CodeAccountNotFound)))
	assert.Equal(t, CodeInsufficientFunds, GetCode(err))
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Equal(t, CodeUnknown, GetCode(errors.New("boom")))
}

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeAccountNotFound, http.StatusNotFound},
		{CodeInsufficientFunds, http.StatusConflict},
		{CodeTooFarAway, http.StatusPreconditionFailed},
		{CodeInvalidAmount, http.StatusBadRequest},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.Kind().HTTPStatus(), tt.code)
	}
}

func TestMessageLocalized(t *testing.T) {
	err := New(CodeInsufficientFunds, int64(5), int64(10))

	assert.Equal(t, "Insufficient funds: balance 5, requested 10", Message(language.AmericanEnglish, err))
	assert.Equal(t, "Premalo sredstev: stanje 5, zahtevano 10", Message(language.Slovenian, err))
	assert.Equal(t, "An unexpected error occurred", Message(language.AmericanEnglish, errors.New("disk on fire")))
}

func TestMatchTag(t *testing.T) {
	assert.Equal(t, language.Slovenian, MatchTag("sl-SI,sl;q=0.9,en;q=0.8"))
	assert.Equal(t, language.AmericanEnglish, MatchTag("en-GB"))
	assert.Equal(t, language.AmericanEnglish, MatchTag(""))
	assert.Equal(t, language.AmericanEnglish, MatchTag("not a header;;"))
}
