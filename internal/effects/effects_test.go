// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package effects

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/guestauth"
	"github.com/roblesbraun/braunstudio/internal/models"
)

type recordingGuests struct{ got []*models.Guest }

func (r *recordingGuests) RecordRSVP(_ context.Context, g *models.Guest) (*models.Guest, error) {
	r.got = append(r.got, g)
	saved := *g
	saved.ID = uuid.New()
	return &saved, nil
}

type recordingGifts struct{ got []*models.GiftContribution }

func (r *recordingGifts) Record(_ context.Context, c *models.GiftContribution) (*models.GiftContribution, error) {
	r.got = append(r.got, c)
	return c, nil
}

type panicCodes struct{}

func (panicCodes) Issue(context.Context, uuid.UUID, string) (string, error) {
	panic("live codes used")
}

func (panicCodes) Verify(context.Context, uuid.UUID, string, string) error {
	panic("live codes used")
}

func liveGate(guests *recordingGuests, gifts *recordingGifts) Gate {
	return Gate{Live: Set{
		RSVPs:     StoreRSVPs{Guests: guests},
		Payments:  LedgerPayments{Gifts: gifts},
		Messenger: LogMessenger{},
		Codes:     panicCodes{},
	}}
}

func TestGate_PreviewNeverReachesLive(t *testing.T) {
	guests, gifts := &recordingGuests{}, &recordingGifts{}
	set := liveGate(guests, gifts).For(true)
	ctx := context.Background()
	wedding := uuid.New()

	if !set.Simulated {
		t.Fatal("preview set not flagged simulated")
	}
	code, err := set.Codes.Issue(ctx, wedding, "+1555")
	if err != nil || code != SimulatedCode {
		t.Fatalf("Issue = %q, %v", code, err)
	}
	if err := set.Messenger.SendCode(ctx, "Ana & Luis", "+1555", code); err != nil {
		t.Fatal(err)
	}
	if err := set.Codes.Verify(ctx, wedding, "+1555", code); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	res, err := set.RSVPs.Record(ctx, RSVP{WeddingID: wedding, Name: "Maria", Phone: "+1555", Attending: true})
	if err != nil || !res.Simulated || res.Guest.RSVPStatus != models.RSVPConfirmed {
		t.Errorf("simulated RSVP = %+v, %v", res, err)
	}
	pr, err := set.Payments.Contribute(ctx, Pledge{WeddingID: wedding, GiftID: "g1", AmountCents: 100})
	if err != nil || !pr.Simulated {
		t.Errorf("simulated pledge = %+v, %v", pr, err)
	}

	if len(guests.got) != 0 || len(gifts.got) != 0 {
		t.Error("preview reached live capabilities")
	}
}

func TestGate_Live(t *testing.T) {
	guests, gifts := &recordingGuests{}, &recordingGifts{}
	set := liveGate(guests, gifts).For(false)
	ctx := context.Background()

	if set.Simulated {
		t.Fatal("live set flagged simulated")
	}
	res, err := set.RSVPs.Record(ctx, RSVP{Name: "Tom", Phone: "+1", Attending: false, PlusOnes: 3})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if res.Simulated || res.Guest.RSVPStatus != models.RSVPDeclined {
		t.Errorf("result = %+v", res)
	}
	if len(guests.got) != 1 || guests.got[0].PlusOnes != 0 {
		t.Errorf("declined guest stored with plus-ones: %+v", guests.got)
	}

	pr, err := set.Payments.Contribute(ctx, Pledge{GiftID: "espresso", AmountCents: 2500})
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if pr.Contribution.Status != models.ContributionPending || len(gifts.got) != 1 {
		t.Errorf("pledge = %+v", pr.Contribution)
	}
}

func TestSimulatedCodes_RejectsOtherCodes(t *testing.T) {
	err := Simulated().Codes.Verify(context.Background(), uuid.New(), "+1", "123456")
	if !errors.Is(err, guestauth.ErrInvalidCode) {
		t.Errorf("err = %v, want ErrInvalidCode", err)
	}
}

func TestMaskPhone(t *testing.T) {
	tests := map[string]string{
		"+15550001234": "****1234",
		"123":          "****",
	}
	for in, want := range tests {
		if got := MaskPhone(in); got != want {
			t.Errorf("MaskPhone(%q) = %q, want %q", in, got, want)
		}
	}
}
