package apperr

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultTag is the fallback locale for messages.
var DefaultTag = language.AmericanEnglish

var supported = []language.Tag{
	language.AmericanEnglish,
	language.Slovenian,
}

var matcher = language.NewMatcher(supported)

var catalog = map[language.Tag]map[Code]string{
	language.AmericanEnglish: {
		CodeUnknown:                "An unexpected error occurred",
		CodeAccountNotFound:        "Bank account not found",
		CodeCharacterNotFound:      "Character not found",
		CodeCompanyNotFound:        "Company not found",
		CodeContainerNotFound:      "Container not found",
		CodeCouponNotFound:         "Coupon not found",
		CodeItemNotFound:           "Item not found",
		CodeInsufficientFunds:      "Insufficient funds: balance %d, requested %d",
		CodeCouponExhausted:        "This coupon has already been used up",
		CodeItemNotInContainer:     "Item %d is not in this container",
		CodeItemNotOwned:           "Item %d is not held by this character",
		CodeSameAccount:            "Cannot transfer to the same account",
		CodeDuplicate:              "%s already exists",
		CodeTooFarAway:             "You are %.0f m away from the heart; come within %.0f m",
		CodeGeolocationUnavailable: "Your location is not available",
		CodeCharacterNotSelected:   "Select a character first",
		CodeRitualTokenMissing:     "The %s container is empty",
		CodeRitualTokenMismatch:    "The %s token is not the one resting in the heart",
		CodeInvalidAmount:          "Amount must be positive",
		CodeInvalidMode:            "Unknown ritual mode %q",
		CodeNoItems:                "No items selected",
	},
	language.Slovenian: {
		CodeUnknown:                "Prišlo je do nepričakovane napake",
		CodeAccountNotFound:        "Bančni račun ne obstaja",
		CodeCharacterNotFound:      "Lik ne obstaja",
		CodeCompanyNotFound:        "Podjetje ne obstaja",
		CodeContainerNotFound:      "Zabojnik ne obstaja",
		CodeCouponNotFound:         "Kupon ne obstaja",
		CodeItemNotFound:           "Predmet ne obstaja",
		CodeInsufficientFunds:      "Premalo sredstev: stanje %d, zahtevano %d",
		CodeCouponExhausted:        "Kupon je že porabljen",
		CodeItemNotInContainer:     "Predmet %d ni v tem zabojniku",
		CodeItemNotOwned:           "Predmeta %d nima ta lik",
		CodeSameAccount:            "Nakazilo na isti račun ni mogoče",
		CodeDuplicate:              "%s že obstaja",
		CodeTooFarAway:             "Od srca ste oddaljeni %.0f m; približajte se na %.0f m",
		CodeGeolocationUnavailable: "Vaša lokacija ni na voljo",
		CodeCharacterNotSelected:   "Najprej izberite lika",
		CodeRitualTokenMissing:     "Zabojnik %s je prazen",
		CodeRitualTokenMismatch:    "Žeton %s ni tisti, ki počiva v srcu",
		CodeInvalidAmount:          "Znesek mora biti pozitiven",
		CodeInvalidMode:            "Neznan način obreda %q",
		CodeNoItems:                "Ni izbranih predmetov",
	},
}

func init() {
	for tag, msgs := range catalog {
		for code, msg := range msgs {
			if err := message.SetString(tag, string(code), msg); err != nil {
				panic(err)
			}
		}
	}
}

// MatchTag picks the best supported locale for an Accept-Language header.
func MatchTag(acceptLanguage string) language.Tag {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return DefaultTag
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultTag
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultTag
	}
	return supported[idx]
}

// Message formats err for the given locale. Non-domain errors get the
// generic message so internals never leak to clients.
func Message(tag language.Tag, err error) string {
	code := CodeUnknown
	var args []any
	var e *Error
	if errors.As(err, &e) {
		code = e.Code
		args = e.Args
	}
	if _, ok := catalog[tag][code]; !ok {
		tag = DefaultTag
	}
	if _, ok := catalog[tag][code]; !ok {
		code = CodeUnknown
		args = nil
	}
	return message.NewPrinter(tag).Sprintf(string(code), args...)
}
