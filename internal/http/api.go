package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"financas-api/internal/domain"
	"financas-api/internal/service"
)

const (
	dueDateFormat   = "2006-01-02"
	createdAtFormat = "2006-01-02 15:04:05"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users        service.UserService
	sessions     service.SessionService
	entries      service.EntryService
	logger       *logrus.Logger
	cookieName   string
	cookieSecure bool
	sessionTTL   time.Duration
	corsOrigin   string
}

func NewHandler(
	users service.UserService,
	sessions service.SessionService,
	entries service.EntryService,
	logger *logrus.Logger,
	cookieName string,
	cookieSecure bool,
	sessionTTL time.Duration,
	corsOrigin string,
) *Handler {
	return &Handler{
		users:        users,
		sessions:     sessions,
		entries:      entries,
		logger:       logger,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
		corsOrigin:   corsOrigin,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger())
	router.Use(corsMiddleware(h.corsOrigin))

	api := router.Group("/api")
	{
		api.POST("/registrar", h.register)
		api.POST("/login", h.login)
		api.POST("/logout", h.logout)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		contas := api.Group("/contas", h.requireLogin())
		{
			contas.GET("", h.listEntries)
			contas.POST("", h.createEntry)
			contas.PUT("/:id", h.updateEntry)
			contas.DELETE("/:id", h.deleteEntry)
		}
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("request")
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "JSON inválido"})
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensagem": "Usuário criado com sucesso!"})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "JSON inválido"})
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, gin.H{"mensagem": "Login realizado com sucesso!"})
}

func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
		if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
			h.writeError(c, err)
			return
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"mensagem": "Logout realizado com sucesso!"})
}

type entryPayload struct {
	Description *string          `json:"descricao"`
	Amount      *decimal.Decimal `json:"valor"`
	DueDate     *string          `json:"data_vencimento"`
	Kind        *string          `json:"tipo"`
	Status      *string          `json:"status"`
}

func (h *Handler) listEntries(c *gin.Context) {
	entries, err := h.entries.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]EntryResponse, len(entries))
	for i := range entries {
		resp[i] = entryToResponse(entries[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createEntry(c *gin.Context) {
	var req entryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "JSON inválido"})
		return
	}

	entry, err := h.entries.Create(c.Request.Context(), currentUserID(c), service.CreateEntryInput{
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Kind:        req.Kind,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mensagem": "Conta criada com sucesso!", "id": entry.ID})
}

func (h *Handler) updateEntry(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	var req entryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "JSON inválido"})
		return
	}

	err := h.entries.Update(c.Request.Context(), currentUserID(c), id, service.UpdateEntryInput{
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Kind:        req.Kind,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensagem": "Conta atualizada com sucesso!"})
}

func (h *Handler) deleteEntry(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.entries.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensagem": "Conta deletada com sucesso!"})
}

func entryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "id inválido"})
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"erro": verr.Message})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Nome de usuário já existe"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"erro": "Usuário ou senha inválidos"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"erro": "Usuário não está logado"})
	case errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"erro": "Acesso negado"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"erro": "Conta não encontrada"})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno"})
	}
}

type EntryResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"descricao"`
	Amount      float64 `json:"valor"`
	DueDate     string  `json:"data_vencimento"`
	Kind        string  `json:"tipo"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"data_criacao"`
}

func entryToResponse(entry domain.Entry) EntryResponse {
	return EntryResponse{
		ID:          entry.ID,
		Description: entry.Description,
		Amount:      entry.Amount.InexactFloat64(),
		DueDate:     entry.DueDate.Format(dueDateFormat),
		Kind:        string(entry.Kind),
		Status:      string(entry.Status),
		CreatedAt:   entry.CreatedAt.Format(createdAtFormat),
	}
}
