package main

import (
	"context"
	"log"

	"travelagency/internal/config"
	"travelagency/internal/database"
	"travelagency/internal/domain"
	"travelagency/internal/ledger"
	"travelagency/internal/modules/booking"
	"travelagency/internal/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a fresh database with the demo data set the portal ships with.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	repo := repository.NewCollectionRepository(db)
	if err := repo.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	l := ledger.New(repo, nil)
	ctx := context.Background()

	seedUsers(ctx, l)
	seedBookings(ctx, l)
	seedPromotions(ctx, l)
	seedAgents(ctx, l)
	seedDocuments(ctx, l)

	log.Println("seed complete")
}

func seedUsers(ctx context.Context, l *ledger.Ledger) {
	users := []domain.User{
		{Name: "Dana Whitfield", Email: "dana@example.com", ContactNumber: "+1 555 0100", Password: mustHash("Sunny2024")},
		{Name: "Ravi Prasad", Email: "ravi@example.com", ContactNumber: "+1 555 0101", Password: mustHash("Coast2024")},
	}
	if err := l.Replace(ctx, ledger.UserLogins, users); err != nil {
		log.Fatalf("seed users: %v", err)
	}
}

func seedBookings(ctx context.Context, l *ledger.Ledger) {
	svc := booking.NewService(l, nil)
	seeds := []domain.Booking{
		{"tour": "Bali Escape", "customerName": "Dana Whitfield", "email": "dana@example.com", "date": "2026-09-15", "people": 2, "amount": 2400, "payment": domain.PaymentPaid, "approved": true, "agentCode": "AG1"},
		{"tour": "Kyoto Autumn", "customerName": "Ravi Prasad", "email": "ravi@example.com", "date": "2026-11-02", "people": 4, "amount": 5200, "payment": domain.PaymentDeposit},
		{"tour": "Patagonia Trek", "customerName": "Mia Chen", "email": "mia@example.com", "date": "2026-10-20", "people": 1, "amount": 3100, "payment": domain.PaymentUnpaid, "agent": "Otto Lang"},
	}
	for _, b := range seeds {
		if _, err := svc.Save(ctx, b, booking.SaveOptions{Source: "seed"}); err != nil {
			log.Fatalf("seed bookings: %v", err)
		}
	}
}

func seedPromotions(ctx context.Context, l *ledger.Ledger) {
	promos := []domain.Promotion{
		{Code: "SUMMER10", Description: "10% off summer departures", Type: domain.PromoPercent, Value: 10, StartDate: "2026-06-01", EndDate: "2026-08-31", UsageLimit: 100},
		{Code: "EARLY50", Description: "$50 off early bookings", Type: domain.PromoAmount, Value: 50, UsageLimit: 25},
	}
	if err := l.Replace(ctx, ledger.Promotions, promos); err != nil {
		log.Fatalf("seed promotions: %v", err)
	}
}

func seedAgents(ctx context.Context, l *ledger.Ledger) {
	agents := []domain.Agent{
		{Name: "Mara Ionescu", Code: "AG1", CommissionPct: 5},
		{Name: "Otto Lang", CommissionPct: 3},
	}
	if err := l.Replace(ctx, ledger.Agents, agents); err != nil {
		log.Fatalf("seed agents: %v", err)
	}
}

func seedDocuments(ctx context.Context, l *ledger.Ledger) {
	docs := []domain.Document{
		{CustomerEmail: "dana@example.com", Type: "passport", Number: "P1234567", ExpiryDate: "2026-09-20", Notes: "renewal reminder sent"},
		{CustomerEmail: "ravi@example.com", Type: "visa", Number: "V8841", ExpiryDate: "2027-03-01"},
	}
	if err := l.Replace(ctx, ledger.Documents, docs); err != nil {
		log.Fatalf("seed documents: %v", err)
	}
}

func mustHash(pw string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	return string(hash)
}
