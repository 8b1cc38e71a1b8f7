package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justCallMeJeg/eboto/internal/response"
)

// Context keys set by the middleware for downstream handlers.
const (
	ContextOrganizerID = "organizer_id"
	ContextVoterID     = "voter_id"
	ContextElectionID  = "session_election_id"
)

// RequireOrganizer rejects requests without a valid organizer session
// token and stores the organizer ID on the context.
func RequireOrganizer(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := issuer.Parse(tokenString, KindOrganizerSession)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ContextOrganizerID, claims.Subject)
		c.Next()
	}
}

// RequireVoter rejects requests without a valid voter session token and
// stores the voter and election IDs on the context. The election bound
// into the token is the only one the session can act on.
func RequireVoter(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := issuer.Parse(tokenString, KindVoterSession)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ContextVoterID, claims.Subject)
		c.Set(ContextElectionID, claims.ElectionID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
