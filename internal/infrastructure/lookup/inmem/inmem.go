package inmem

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

// Directory is an in-memory stand-in for the external KYC service, used by
// the demo deployment and by tests. Lookups are case-insensitive on PAN.
type Directory struct {
	mu      sync.RWMutex
	records map[string]domain.IdentityRecord
}

func NewDirectory(records []domain.IdentityRecord) *Directory {
	d := &Directory{records: make(map[string]domain.IdentityRecord, len(records))}
	for _, r := range records {
		d.records[strings.ToUpper(r.PANNumber)] = r
	}
	return d
}

func NewSeededDirectory() *Directory {
	return NewDirectory(seedIdentities())
}

func (d *Directory) LookupPAN(_ context.Context, pan string) (*domain.IdentityRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	record, ok := d.records[strings.ToUpper(pan)]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "inmem.LookupPAN",
			fmt.Errorf("no identity record for PAN %s", pan))
	}
	out := record
	return &out, nil
}

// Bureau is the in-memory credit bureau counterpart of Directory.
type Bureau struct {
	mu      sync.RWMutex
	records map[string]domain.CreditRecord
}

func NewBureau(records []domain.CreditRecord) *Bureau {
	b := &Bureau{records: make(map[string]domain.CreditRecord, len(records))}
	for _, r := range records {
		b.records[strings.ToUpper(r.PANNumber)] = r
	}
	return b
}

func NewSeededBureau() *Bureau {
	return NewBureau(seedCreditRecords())
}

func (b *Bureau) LookupCredit(_ context.Context, pan string) (*domain.CreditRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	record, ok := b.records[strings.ToUpper(pan)]
	if !ok {
		return nil, domain.WrapError(domain.ErrNoHistory, "inmem.LookupCredit",
			fmt.Errorf("no credit history for PAN %s", pan))
	}
	out := record
	return &out, nil
}

func dob(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// seedIdentities covers the interesting verification outcomes: clean records
// across ages and employment profiles, a pending Aadhaar linkage, a blocked
// record, and one applicant too young to borrow.
func seedIdentities() []domain.IdentityRecord {
	return []domain.IdentityRecord{
		{
			PANNumber:   "ABCDE1234F",
			FullName:    "Rahul Sharma",
			DateOfBirth: dob(1990, time.May, 15),
			Status:      domain.KYCStatusVerified,
			Phone:       "+91-9876543210",
			Address:     "12 MG Road, Bengaluru",
		},
		{
			PANNumber:   "FGHIJ5678K",
			FullName:    "Priya Patel",
			DateOfBirth: dob(1993, time.November, 2),
			Status:      domain.KYCStatusVerified,
			Phone:       "+91-9811001100",
			Address:     "44 Linking Road, Mumbai",
		},
		{
			PANNumber:   "KLMNO9012P",
			FullName:    "Amit Verma",
			DateOfBirth: dob(1985, time.March, 28),
			Status:      domain.KYCStatusPendingLink,
			Phone:       "+91-9900220033",
		},
		{
			PANNumber:   "PQRST3456U",
			FullName:    "Sneha Iyer",
			DateOfBirth: dob(1988, time.August, 9),
			Status:      domain.KYCStatusBlocked,
			Phone:       "+91-9733445566",
		},
		{
			PANNumber:   "UVWXY7890Z",
			FullName:    "Vikram Singh",
			DateOfBirth: dob(1979, time.January, 21),
			Status:      domain.KYCStatusVerified,
			Phone:       "+91-9655778899",
			Address:     "7 Civil Lines, Jaipur",
		},
		{
			// Verified identity but under the minimum borrowing age.
			PANNumber:   "BCDEA2345G",
			FullName:    "Ishaan Rao",
			DateOfBirth: dob(2007, time.June, 30),
			Status:      domain.KYCStatusVerified,
			Phone:       "+91-9500112233",
		},
	}
}

// seedCreditRecords intentionally has no entry for BCDEA2345G so the thin-file
// path gets exercised.
func seedCreditRecords() []domain.CreditRecord {
	return []domain.CreditRecord{
		{
			PANNumber:    "ABCDE1234F",
			Score:        820,
			Status:       "Active",
			ActiveLoans:  1,
			HistoryYears: 8,
		},
		{
			PANNumber:      "FGHIJ5678K",
			Score:          760,
			Status:         "Active",
			ActiveLoans:    2,
			HistoryYears:   5,
			LatePayments6M: 1,
			UtilizationPct: 40,
		},
		{
			PANNumber:    "KLMNO9012P",
			Score:        710,
			Status:       "Active",
			ActiveLoans:  1,
			HistoryYears: 10,
		},
		{
			PANNumber:      "UVWXY7890Z",
			Score:          620,
			Status:         "Delinquent",
			ActiveLoans:    4,
			HistoryYears:   12,
			Defaults:       1,
			LatePayments6M: 3,
			UtilizationPct: 85,
		},
	}
}
