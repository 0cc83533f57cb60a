package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/validation"
)

const (
	BACKOFFICE_CACHE_PREFIX       = "backoffice:"
	BACKOFFICE_BRANCHES_CACHE_KEY = "backoffice:branches"
	BACKOFFICE_CUSTOMER_CACHE_KEY = "backoffice:customer:"
	EventPaymentRecorded          = "customer.payment_recorded"
	EventPurchaseCreated          = "purchase.created"
	EventQuotationCreated         = "quotation.created"
	EventQuotationConverted       = "quotation.converted"
	EventQuotationVoided          = "quotation.voided"
	CACHE_TTL_SHORT               = 5 * time.Minute
	CACHE_TTL_LONG                = 2 * time.Hour
	DEFAULT_PAGE_SIZE             = 20
	MAX_PAGE_SIZE                 = 100
)

// -- Handler --
type BackOfficeHandler struct {
	db       *gorm.DB
	redis    *redis.Client
	tokenTTL time.Duration
	now      func() time.Time
}

var _ pb.BackOfficeServer = (*BackOfficeHandler)(nil)

func NewBackOfficeHandler(db *gorm.DB, redisClient *redis.Client, tokenTTL time.Duration) *BackOfficeHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &BackOfficeHandler{
		db:       db,
		redis:    redisClient,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func customerCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", BACKOFFICE_CUSTOMER_CACHE_KEY, id)
}

// InvalidateBackOfficeCaches drops the branch list and the given customers.
func (s *BackOfficeHandler) InvalidateBackOfficeCaches(ctx context.Context, customerIDs ...int64) {
	if err := s.redis.Del(ctx, BACKOFFICE_BRANCHES_CACHE_KEY).Err(); err != nil {
		log.Printf("cache invalidation failed for %s: %v", BACKOFFICE_BRANCHES_CACHE_KEY, err)
	}
	for _, id := range customerIDs {
		if err := s.redis.Del(ctx, customerCacheKey(id)).Err(); err != nil {
			log.Printf("cache invalidation failed for customer %d: %v", id, err)
		}
	}
}

// getCached decodes key into dest. It reports false on a miss or any redis
// error, in which case the caller reads the database.
func (s *BackOfficeHandler) getCached(ctx context.Context, key string, dest any) bool {
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis error on GET %s: %v. Falling back to DB.", key, err)
		}
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (s *BackOfficeHandler) setCached(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("failed to set cache for key %s: %v", key, err)
	}
}

// -- Pub/Sub Related --
type Event struct {
	ID             string          `json:"id"`
	EventType      string          `json:"event_type"`
	EntityID       int64           `json:"entity_id"`
	DocumentNumber string          `json:"document_number,omitempty"`
	UserID         int64           `json:"user_id"`
	BranchID       int64           `json:"branch_id,omitempty"`
	CustomerID     int64           `json:"customer_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Timestamp      time.Time       `json:"timestamp"`
	Data           any             `json:"data,omitempty"`
}

func (s *BackOfficeHandler) publishEvent(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := fmt.Sprintf("backoffice:events:%s", event.EventType)
	if err := s.redis.Publish(ctx, channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if err := s.redis.Publish(ctx, "backoffice:events:all", eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish to all channel: %w", err)
	}

	return nil
}

// emit publishes after a commit. The write already happened, so a failure is
// only logged.
func (s *BackOfficeHandler) emit(ctx context.Context, event Event) {
	if err := s.publishEvent(ctx, event); err != nil {
		log.Printf("event %s for %d not published: %v", event.EventType, event.EntityID, err)
	}
}

// -- Helpers --

// documentNumber is PREFIX-YYYYMMDD-XXXXXXXX.
func (s *BackOfficeHandler) documentNumber(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, s.now().Format("20060102"), suffix)
}

func invalidArgument(err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return status.Error(codes.InvalidArgument, verr.Error())
	}
	return status.Error(codes.InvalidArgument, err.Error())
}

// internalError logs the database failure and hides it from the caller.
func internalError(op string, err error) error {
	log.Printf("%s: %v", op, err)
	return status.Errorf(codes.Internal, "failed to %s", op)
}

func lookupError(err error, what string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return status.Errorf(codes.NotFound, "%s %d not found", what, id)
	}
	return internalError("load "+what, err)
}

func paginate(p pb.Pagination) (page, size int32, offset int) {
	page, size = p.Page, p.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DEFAULT_PAGE_SIZE
	}
	if size > MAX_PAGE_SIZE {
		size = MAX_PAGE_SIZE
	}
	return page, size, int(page-1) * int(size)
}

// likeTerm builds a case-insensitive LIKE pattern; columns are compared
// through LOWER() so the query runs on any SQL dialect.
func likeTerm(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

func rollback(tx *gorm.DB) {
	if err := tx.Rollback().Error; err != nil && !errors.Is(err, gorm.ErrInvalidTransaction) {
		log.Printf("rollback failed: %v", err)
	}
}
