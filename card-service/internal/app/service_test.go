package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumenbank/banking-services/card-service/internal/domain"
	"github.com/lumenbank/banking-services/pkg/apperror"
)

// fakeRepo mimics the store including the unique index on pan: an insert
// whose PAN is already held returns the same conflict the real repository
// maps from SQLSTATE 23505.
type fakeRepo struct {
	cards map[uuid.UUID]*domain.Card
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{cards: make(map[uuid.UUID]*domain.Card)}
}

func (f *fakeRepo) seed(card domain.Card) *domain.Card {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	f.cards[card.ID] = &card
	return &card
}

func (f *fakeRepo) CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	for _, c := range f.cards {
		if c.PAN == card.PAN {
			return nil, apperror.Conflict("Generated card number collided, please retry")
		}
	}
	c := *card
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	f.cards[c.ID] = &c
	return &c, nil
}

func (f *fakeRepo) FindByIDAndAccountID(ctx context.Context, id, accountID uuid.UUID) (*domain.Card, error) {
	card, ok := f.cards[id]
	if !ok || card.AccountID != accountID {
		return nil, apperror.Validation("Card not found or does not belong to this account")
	}
	c := *card
	return &c, nil
}

func (f *fakeRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Card, error) {
	out := make([]domain.Card, 0)
	for _, c := range f.cards {
		if c.AccountID == accountID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListCards(ctx context.Context, filter domain.CardFilter) ([]domain.Card, error) {
	out := make([]domain.Card, 0, len(f.cards))
	for _, c := range f.cards {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	count := 0
	for _, c := range f.cards {
		if c.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) ExistsByAccountAndType(ctx context.Context, accountID uuid.UUID, cardType domain.CardType) (bool, error) {
	for _, c := range f.cards {
		if c.AccountID == accountID && c.CardType == cardType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ExistsByPAN(ctx context.Context, pan string) (bool, error) {
	for _, c := range f.cards {
		if c.PAN == pan {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) UpdateAlias(ctx context.Context, id, accountID uuid.UUID, alias string) (*domain.Card, error) {
	card, ok := f.cards[id]
	if !ok || card.AccountID != accountID {
		return nil, apperror.Validation("Card not found or does not belong to this account")
	}
	card.Alias = alias
	c := *card
	return &c, nil
}

func (f *fakeRepo) DeleteCard(ctx context.Context, id, accountID uuid.UUID) error {
	card, ok := f.cards[id]
	if !ok || card.AccountID != accountID {
		return apperror.Validation("Card not found or does not belong to this account")
	}
	delete(f.cards, id)
	return nil
}

type fakeAccountClient struct {
	exists bool
	err    error
}

func (f *fakeAccountClient) AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	return f.exists, f.err
}

// stubGenerator replays a fixed sequence of PANs so collision handling can be
// exercised deterministically.
type stubGenerator struct {
	pans     []string
	panCalls int
	cvv      string
}

func (s *stubGenerator) GeneratePAN() (string, error) {
	if s.panCalls >= len(s.pans) {
		return "", errors.New("stub generator exhausted")
	}
	pan := s.pans[s.panCalls]
	s.panCalls++
	return pan, nil
}

func (s *stubGenerator) GenerateCVV() (string, error) {
	if s.cvv == "" {
		return "123", nil
	}
	return s.cvv, nil
}

func issueRequest(accountID uuid.UUID) domain.CardRequest {
	return domain.CardRequest{AccountID: accountID, CardType: "virtual", Alias: "Shopping"}
}

func TestMaskPAN(t *testing.T) {
	tests := []struct {
		pan  string
		want string
	}{
		{"1234567890123456", "123456******3456"},
		{"1234567890", "1234563456"},
		{"123456789", "****"},
		{"", "****"},
	}
	for _, tt := range tests {
		if got := maskPAN(tt.pan); got != tt.want {
			t.Fatalf("maskPAN(%q) = %q, want %q", tt.pan, got, tt.want)
		}
	}
}

func TestCreateCardReturnsUnmaskedCredentials(t *testing.T) {
	accountID := uuid.New()
	gen := &stubGenerator{pans: []string{"1234567890123456"}, cvv: "987"}
	svc := NewService(newFakeRepo(), &fakeAccountClient{exists: true}, gen, nil)

	resp, err := svc.CreateCard(context.Background(), issueRequest(accountID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PAN != "1234567890123456" {
		t.Fatalf("creation response must carry the real PAN, got %q", resp.PAN)
	}
	if resp.CVV != "987" {
		t.Fatalf("creation response must carry the real CVV, got %q", resp.CVV)
	}
	if resp.CardType != "Virtual" {
		t.Fatalf("expected display card type Virtual, got %q", resp.CardType)
	}
}

func TestCreateCardValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeAccountClient{exists: true}, &stubGenerator{pans: []string{"1111222233334444"}}, nil)

	tests := []struct {
		name string
		req  domain.CardRequest
		want string
	}{
		{"missing account", domain.CardRequest{CardType: "virtual", Alias: "a"}, "Account ID is required"},
		{"blank type", domain.CardRequest{AccountID: uuid.New(), Alias: "a"}, "Card type is required"},
		{"blank alias", domain.CardRequest{AccountID: uuid.New(), CardType: "virtual"}, "Card alias is required"},
		{"unknown type", domain.CardRequest{AccountID: uuid.New(), CardType: "plastic", Alias: "a"}, "Unknown card type: plastic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCard(context.Background(), tt.req)
			if apperror.KindOf(err) != apperror.KindValidation {
				t.Fatalf("expected KindValidation, got %v (%v)", apperror.KindOf(err), err)
			}
			if err.Error() != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateCardPeerFailureIsUnavailableNotNotFound(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	svc := NewService(newFakeRepo(), &fakeAccountClient{err: cause}, &stubGenerator{pans: []string{"1111222233334444"}}, nil)

	_, err := svc.CreateCard(context.Background(), issueRequest(uuid.New()))
	if apperror.KindOf(err) != apperror.KindUnavailable {
		t.Fatalf("expected KindUnavailable, got %v (%v)", apperror.KindOf(err), err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected transport cause to be wrapped")
	}
}

func TestCreateCardAccountAbsentIsNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeAccountClient{exists: false}, &stubGenerator{pans: []string{"1111222233334444"}}, nil)

	_, err := svc.CreateCard(context.Background(), issueRequest(uuid.New()))
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected KindNotFound, got %v (%v)", apperror.KindOf(err), err)
	}
}

func TestCreateCardEnforcesTwoCardLimit(t *testing.T) {
	accountID := uuid.New()
	repo := newFakeRepo()
	repo.seed(domain.Card{PAN: "1111111111111111", AccountID: accountID, CardType: domain.CardTypeVirtual})
	repo.seed(domain.Card{PAN: "2222222222222222", AccountID: accountID, CardType: domain.CardTypePhysical})
	svc := NewService(repo, &fakeAccountClient{exists: true}, &stubGenerator{pans: []string{"3333333333333333"}}, nil)

	_, err := svc.CreateCard(context.Background(), issueRequest(accountID))
	if apperror.KindOf(err) != apperror.KindConflict {
		t.Fatalf("expected KindConflict, got %v (%v)", apperror.KindOf(err), err)
	}
	want := "Cannot create more than 2 cards for this account"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestCreateCardEnforcesOnePerType(t *testing.T) {
	accountID := uuid.New()
	repo := newFakeRepo()
	repo.seed(domain.Card{PAN: "1111111111111111", AccountID: accountID, CardType: domain.CardTypeVirtual})
	svc := NewService(repo, &fakeAccountClient{exists: true}, &stubGenerator{pans: []string{"3333333333333333"}}, nil)

	_, err := svc.CreateCard(context.Background(), issueRequest(accountID))
	if apperror.KindOf(err) != apperror.KindConflict {
		t.Fatalf("expected KindConflict, got %v (%v)", apperror.KindOf(err), err)
	}
	want := "Account already has a card of type Virtual"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestCreateCardRegeneratesOnceOnPANCollision(t *testing.T) {
	otherAccount := uuid.New()
	repo := newFakeRepo()
	repo.seed(domain.Card{PAN: "1111111111111111", AccountID: otherAccount, CardType: domain.CardTypeVirtual})

	gen := &stubGenerator{pans: []string{"1111111111111111", "2222222222222222"}}
	svc := NewService(repo, &fakeAccountClient{exists: true}, gen, nil)

	resp, err := svc.CreateCard(context.Background(), issueRequest(uuid.New()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PAN != "2222222222222222" {
		t.Fatalf("expected the regenerated PAN, got %q", resp.PAN)
	}
	if gen.panCalls != 2 {
		t.Fatalf("expected exactly 2 PAN draws, got %d", gen.panCalls)
	}
}

func TestCreateCardSecondCollisionIsConflict(t *testing.T) {
	otherAccount := uuid.New()
	repo := newFakeRepo()
	repo.seed(domain.Card{PAN: "1111111111111111", AccountID: otherAccount, CardType: domain.CardTypeVirtual})
	repo.seed(domain.Card{PAN: "2222222222222222", AccountID: otherAccount, CardType: domain.CardTypePhysical})

	// Both draws collide. The second is taken to the insert, where the
	// unique index rejects it; no third draw happens.
	gen := &stubGenerator{pans: []string{"1111111111111111", "2222222222222222"}}
	svc := NewService(repo, &fakeAccountClient{exists: true}, gen, nil)

	_, err := svc.CreateCard(context.Background(), issueRequest(uuid.New()))
	if apperror.KindOf(err) != apperror.KindConflict {
		t.Fatalf("expected KindConflict, got %v (%v)", apperror.KindOf(err), err)
	}
	if gen.panCalls != 2 {
		t.Fatalf("expected exactly 2 PAN draws, got %d", gen.panCalls)
	}
}

func TestGetCardMasksByDefault(t *testing.T) {
	accountID := uuid.New()
	repo := newFakeRepo()
	card := repo.seed(domain.Card{PAN: "1234567890123456", CVV: "987", AccountID: accountID, CardType: domain.CardTypeVirtual})
	svc := NewService(repo, &fakeAccountClient{exists: true}, &stubGenerator{}, nil)

	resp, err := svc.GetCard(context.Background(), card.ID, accountID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PAN != "123456******3456" {
		t.Fatalf("expected masked PAN, got %q", resp.PAN)
	}
	if resp.CVV != "***" {
		t.Fatalf("expected masked CVV, got %q", resp.CVV)
	}
}

func TestGetCardShowSensitive(t *testing.T) {
	accountID := uuid.New()
	repo := newFakeRepo()
	card := repo.seed(domain.Card{PAN: "1234567890123456", CVV: "987", AccountID: accountID, CardType: domain.CardTypeVirtual})
	svc := NewService(repo, &fakeAccountClient{exists: true}, &stubGenerator{}, nil)

	resp, err := svc.GetCard(context.Background(), card.ID, accountID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PAN != "1234567890123456" || resp.CVV != "987" {
		t.Fatalf("expected real credentials, got pan=%q cvv=%q", resp.PAN, resp.CVV)
	}
}

func TestGetCardWrongAccountIsScopedMiss(t *testing.T) {
	repo := newFakeRepo()
	card := repo.seed(domain.Card{PAN: "1234567890123456", AccountID: uuid.New(), CardType: domain.CardTypeVirtual})
	svc := NewService(repo, &fakeAccountClient{exists: true}, &stubGenerator{}, nil)

	_, err := svc.GetCard(context.Background(), card.ID, uuid.New(), false)
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected KindValidation, got %v (%v)", apperror.KindOf(err), err)
	}
	want := "Card not found or does not belong to this account"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestUpdateAliasResponseIsAlwaysMasked(t *testing.T) {
	accountID := uuid.New()
	repo := newFakeRepo()
	card := repo.seed(domain.Card{PAN: "1234567890123456", CVV: "987", AccountID: accountID, CardType: domain.CardTypeVirtual})
	svc := NewService(repo, &fakeAccountClient{exists: true}, &stubGenerator{}, nil)

	resp, err := svc.UpdateAlias(context.Background(), card.ID, accountID, "Travel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Alias != "Travel" {
		t.Fatalf("expected alias applied, got %q", resp.Alias)
	}
	if resp.PAN != "123456******3456" || resp.CVV != "***" {
		t.Fatalf("rename response must be masked, got pan=%q cvv=%q", resp.PAN, resp.CVV)
	}
}

func TestUpdateAliasRequiresValue(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeAccountClient{exists: true}, &stubGenerator{}, nil)
	_, err := svc.UpdateAlias(context.Background(), uuid.New(), uuid.New(), "   ")
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected KindValidation, got %v", apperror.KindOf(err))
	}
}

func TestListCardsMaskedUnlessSensitiveRequested(t *testing.T) {
	accountID := uuid.New()
	repo := newFakeRepo()
	repo.seed(domain.Card{PAN: "1234567890123456", CVV: "987", AccountID: accountID, CardType: domain.CardTypeVirtual})
	svc := NewService(repo, &fakeAccountClient{exists: true}, &stubGenerator{}, nil)

	masked, err := svc.ListCards(context.Background(), domain.CardFilter{AccountID: accountID}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(masked) != 1 || masked[0].PAN != "123456******3456" || masked[0].CVV != "***" {
		t.Fatalf("expected one masked card, got %+v", masked)
	}

	sensitive, err := svc.ListCards(context.Background(), domain.CardFilter{AccountID: accountID}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sensitive) != 1 || sensitive[0].PAN != "1234567890123456" || sensitive[0].CVV != "987" {
		t.Fatalf("expected one unmasked card, got %+v", sensitive)
	}
}

func TestDeleteCardScopedToAccount(t *testing.T) {
	accountID := uuid.New()
	repo := newFakeRepo()
	card := repo.seed(domain.Card{PAN: "1234567890123456", AccountID: accountID, CardType: domain.CardTypeVirtual})
	svc := NewService(repo, &fakeAccountClient{exists: true}, &stubGenerator{}, nil)

	if err := svc.DeleteCard(context.Background(), card.ID, uuid.New()); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected scoped miss, got %v", err)
	}
	if err := svc.DeleteCard(context.Background(), card.ID, accountID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count, _ := repo.CountByAccount(context.Background(), accountID); count != 0 {
		t.Fatalf("expected card removed, count %d", count)
	}
}
