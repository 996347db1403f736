package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderXViewerID = "X-Viewer-ID"
	ContextViewerID = "viewer_id"
)

// ViewerID identifies the anonymous browser profile behind community
// interactions. Clients persist the ID locally and send it back on
// every request; a request without one gets a fresh identity.
func ViewerID() gin.HandlerFunc {
	return func(c *gin.Context) {
		vid := c.GetHeader(HeaderXViewerID)
		if _, err := uuid.Parse(vid); err != nil {
			vid = uuid.New().String()
		}

		c.Set(ContextViewerID, vid)
		c.Header(HeaderXViewerID, vid)
		c.Next()
	}
}
