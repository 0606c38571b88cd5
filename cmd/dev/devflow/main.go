package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/booking"
	"timeshare/internal/events"
	"timeshare/internal/inventory"
	"timeshare/internal/listing"
	"timeshare/internal/offer"
	"timeshare/internal/payout"
	"timeshare/internal/profile"
	"timeshare/pkg/config"
	"timeshare/pkg/db"
)

// devflow seeds an owner, a traveler and an admin, lists a week, and walks the
// request through the booking lifecycle up to -stop-at.
func main() {
	var (
		ownerID    = flag.String("owner-id", "", "owner profile id (generated when empty)")
		travelerID = flag.String("traveler-id", "", "traveler profile id (generated when empty)")
		adminID    = flag.String("admin-id", "", "admin profile id (generated when empty)")
		priceCents = flag.Int64("price-cents", 120000, "owner price for the seeded listing")
		stopAt     = flag.String("stop-at", string(booking.StatusFullyPaid), "booking status to stop at")
	)
	flag.Parse()

	target, err := booking.ParseStatus(*stopAt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -stop-at: %v\n", err)
		os.Exit(2)
	}
	if target.Terminal() && target != booking.StatusFullyPaid {
		fmt.Fprintf(os.Stderr, "-stop-at must be on the happy path, got %s\n", target)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
	}

	seeds := []struct {
		id   *string
		name string
		role profile.Role
	}{
		{ownerID, "Dev Owner", profile.RoleOwner},
		{travelerID, "Dev Traveler", profile.RoleTraveler},
		{adminID, "Dev Admin", profile.RoleAdmin},
	}
	for _, s := range seeds {
		if *s.id == "" {
			*s.id = uuid.NewString()
		}
		if err := upsertProfile(ctx, pool, *s.id, s.name, s.role); err != nil {
			fmt.Fprintf(os.Stderr, "seed profile %s: %v\n", s.role, err)
			os.Exit(1)
		}
	}

	checkIn := time.Now().AddDate(0, 2, 0)
	in := listing.CreateInput{
		OwnershipType:    inventory.OwnershipFixedWeek,
		HomeWeek:         "Week 26",
		ResortName:       "Dev Beach Resort",
		City:             "Orlando",
		Country:          "USA",
		CheckInDate:      checkIn.Format(time.DateOnly),
		CheckOutDate:     checkIn.AddDate(0, 0, 7).Format(time.DateOnly),
		UnitType:         "2BR",
		OwnerPriceCents:  *priceCents,
		NormalPriceCents: *priceCents * 2,
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "listing input: %v\n", err)
		os.Exit(1)
	}
	l, err := listing.NewRepository(pool).Create(ctx, *ownerID, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create listing: %v\n", err)
		os.Exit(1)
	}

	offers := offer.NewRepository(pool)
	o, err := offers.Request(ctx, offer.RequestInput{
		ListingID:  l.ID,
		TravelerID: *travelerID,
		GuestCount: 2,
		Note:       "seeded by devflow",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "request offer: %v\n", err)
		os.Exit(1)
	}
	_, b, err := offers.Accept(ctx, *ownerID, o.ID, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "accept offer: %v\n", err)
		os.Exit(1)
	}

	wf := &booking.Workflow{DB: pool}
	steps := []booking.Command{
		{Event: booking.EventPayFirst, ActorID: *travelerID},
		{Event: booking.EventSubmitProof, ActorID: *ownerID, ConfirmationNumber: "DEV-" + l.ID[:8], ProofFilePath: "proofs/" + l.ID + ".pdf"},
		{Event: booking.EventVerify, ActorID: *adminID, IsAdmin: true},
		{Event: booking.EventPayFinal, ActorID: *travelerID},
	}
	for _, cmd := range steps {
		if b.Status == target {
			break
		}
		cmd.BookingID = b.ID
		b, err = wf.Apply(ctx, cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", cmd.Event, err)
			os.Exit(1)
		}
	}

	timeline, err := events.ListByBooking(ctx, pool, b.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list events: %v\n", err)
		os.Exit(1)
	}

	split := payout.CalculateBreakdown(l.OwnerPriceCents)
	fmt.Printf("Seed complete.\n")
	fmt.Printf("owner_id=%s traveler_id=%s admin_id=%s\n", *ownerID, *travelerID, *adminID)
	fmt.Printf("listing_id=%s price_cents=%d fee_cents=%d owner_net_cents=%d\n",
		l.ID, l.OwnerPriceCents, split.PlatformFeeCents, split.OwnerNetCents)
	fmt.Printf("offer_id=%s booking_id=%s status=%s\n", o.ID, b.ID, b.Status)
	fmt.Printf("events:\n")
	for _, e := range timeline {
		fmt.Printf("  - %s %s: %s -> %s (%s)\n", e.OccurredAt, e.EventType, e.FromStatus, e.ToStatus, e.ActorRole)
	}

	fmt.Printf("\nNext steps:\n")
	fmt.Printf("- Sign a Supabase token for one of the ids above and GET /bookings/%s.\n", b.ID)
	if b.Status == booking.StatusFullyPaid {
		fmt.Printf("- Both parties can now POST /bookings/%s/reviews/user.\n", b.ID)
	}
}

func upsertProfile(ctx context.Context, pool *pgxpool.Pool, id, name string, role profile.Role) error {
	const q = `
INSERT INTO profiles (id, full_name, role)
VALUES ($1::uuid, $2, $3)
ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role, account_status = 'active', status_reason = NULL
`
	_, err := pool.Exec(ctx, q, id, name, string(role))
	return err
}
