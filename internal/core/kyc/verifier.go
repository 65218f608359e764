// Package kyc verifies applicant identity against the PAN directory.
package kyc

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/ports"
)

// PAN format: 5 letters, 4 digits, 1 letter.
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

func IsValidPAN(pan string) bool {
	return panPattern.MatchString(strings.ToUpper(strings.TrimSpace(pan)))
}

type Verifier struct {
	directory ports.IdentityDirectory
	now       func() time.Time
}

func NewVerifier(directory ports.IdentityDirectory) *Verifier {
	return &Verifier{
		directory: directory,
		now:       time.Now,
	}
}

// Verify validates the PAN format, looks the identifier up and gates on KYC
// status. The failure kinds are distinct: ErrInvalidInput for a malformed
// identifier, ErrNotFound for an unknown one, ErrNotEligible when the record
// exists but is not fully verified (pending linkage and blocked carry
// different detail).
func (v *Verifier) Verify(ctx context.Context, raw string) (*domain.VerifiedIdentity, error) {
	pan := strings.ToUpper(strings.TrimSpace(raw))
	if !panPattern.MatchString(pan) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "verify kyc",
			fmt.Errorf("pan %q does not match the ABCDE1234F format", raw))
	}

	record, err := v.directory.LookupPAN(ctx, pan)
	if err != nil {
		return nil, err
	}

	switch record.Status {
	case domain.KYCStatusVerified:
	case domain.KYCStatusPendingLink:
		return nil, domain.WrapError(domain.ErrNotEligible, "verify kyc",
			fmt.Errorf("kyc status %s: aadhaar linkage is pending", record.Status))
	default:
		return nil, domain.WrapError(domain.ErrNotEligible, "verify kyc",
			fmt.Errorf("kyc status %s: record is blocked", record.Status))
	}

	return &domain.VerifiedIdentity{
		PANNumber:   record.PANNumber,
		FullName:    record.FullName,
		DateOfBirth: record.DateOfBirth,
		Age:         AgeAt(record.DateOfBirth, v.now()),
		Phone:       record.Phone,
	}, nil
}

// AgeAt computes whole years between dob and the reference date, calendar
// accurate: the year difference is decremented until the birthday has passed.
func AgeAt(dob, on time.Time) int {
	age := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		age--
	}
	return age
}
