package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/jobs"
	"github.com/embaixada-angola/studentportal/internal/repo/postgres"
	"github.com/embaixada-angola/studentportal/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, u user.User) (user.User, error)
}

// TokenIssuer keeps the handler decoupled from the jwt manager for tests.
type TokenIssuer interface {
	GenerateSessionToken(u user.User) (string, error)
}

// JobEnqueuer is the queue surface the auth handler needs. Nil disables
// async notifications (dev mode without Redis).
type JobEnqueuer interface {
	Enqueue(ctx context.Context, queue string, j jobs.Job) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        TokenIssuer
	queue      JobEnqueuer
	queueName  string
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwt TokenIssuer, queue JobEnqueuer, queueName string) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwt,
		queue:      queue,
		queueName:  queueName,
	}
}

// Login authenticates a student or admin and issues a session token. Wrong
// email and wrong password are deliberately indistinguishable in the
// response.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not sign in")
		return
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := h.jwt.GenerateSessionToken(u)

	if err != nil {
		RespondInternal(ctx, "Could not generate session token")
		return
	}

	ctx.JSON(200, gin.H{
		"success": true,
		"user":    u,
		"token":   token,
	})
}

// Register creates a student account. Admin accounts are seeded, never
// registered.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create account")
		return
	}

	u, err := h.userWriter.Create(cctx, user.NewStudentFromRegister(req, hash))

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			RespondConflict(ctx, "email_taken", "Email is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create account")
		return
	}

	token, err := h.jwt.GenerateSessionToken(u)

	if err != nil {
		RespondInternal(ctx, "Could not generate session token")
		return
	}

	h.enqueueWelcome(cctx, u)

	ctx.JSON(201, gin.H{
		"success": true,
		"user":    u,
		"token":   token,
	})
}

// Logout only acknowledges; the session token is stateless and the client
// clears its own durable keys.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"success": true})
}

// best effort, registration never fails because the queue is down
func (h *AuthHandler) enqueueWelcome(ctx context.Context, u user.User) {
	if h.queue == nil {
		return
	}

	payload, err := jobs.EncodePayload(jobs.JobSendWelcome, jobs.SendWelcomePayload{
		UserID: u.ID,
		Email:  u.Email,
		Nome:   u.Nome,
	})

	if err != nil {
		return
	}

	j, err := jobs.NewJob(jobs.JobSendWelcome, payload)

	if err != nil {
		return
	}

	_ = h.queue.Enqueue(ctx, h.queueName, j)
}
