// Package httpapi exposes the digit pipeline over HTTP with gin.
//
// Upload endpoints (/v1/predict, /v1/threshold, /v1/edges) are stateless:
// each request carries its own image in the multipart field "image". The
// /v1/current endpoints read the shared pipeline.Session that the MCP
// server drives.
package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/digit-match-mcp/internal/classify"
	"github.com/ironsheep/digit-match-mcp/internal/imaging"
	"github.com/ironsheep/digit-match-mcp/internal/pipeline"
)

// MaxUploadBytes bounds the multipart memory gin buffers per request.
const MaxUploadBytes = 8 << 20

// API serves one session and its template bank.
type API struct {
	session *pipeline.Session
}

// New returns an API around session.
func New(session *pipeline.Session) *API {
	return &API{session: session}
}

// Router builds a gin engine with every route registered. debug selects
// gin's debug mode and request logging.
func (a *API) Router(debug bool) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if debug {
		r.Use(gin.Logger())
	}
	r.MaxMultipartMemory = MaxUploadBytes
	a.setupRoutes(r)
	return r
}

func (a *API) setupRoutes(r *gin.Engine) {
	r.GET("/healthz", a.healthHandler)

	v1 := r.Group("/v1")
	v1.GET("/templates", a.templatesHandler)
	v1.POST("/predict", a.predictHandler)
	v1.POST("/threshold", a.thresholdHandler)
	v1.POST("/edges", a.edgesHandler)

	v1.GET("/current", a.currentStatusHandler)
	v1.GET("/current/image", a.currentImageHandler)
	v1.POST("/current/predict", a.currentPredictHandler)
}

func (a *API) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) templatesHandler(c *gin.Context) {
	bank := a.session.Bank()
	c.JSON(http.StatusOK, gin.H{
		"size":      bank.Size(),
		"renderer":  bank.Renderer(),
		"templates": bank.Summary(),
	})
}

func (a *API) predictHandler(c *gin.Context) {
	img, ok := readUpload(c)
	if !ok {
		return
	}
	p, err := a.session.Bank().Predict(img)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// thresholdHandler binarizes the upload at the form field "level" and
// returns the PNG. The level follows the usual policy: missing, unparsable
// or 0 means 128.
func (a *API) thresholdHandler(c *gin.Context) {
	img, ok := readUpload(c)
	if !ok {
		return
	}
	level := imaging.ParseLevel(c.PostForm("level"))
	c.Header("X-Threshold-Level", strconv.Itoa(int(level)))
	writePNG(c, imaging.Threshold(img, level))
}

func (a *API) edgesHandler(c *gin.Context) {
	img, ok := readUpload(c)
	if !ok {
		return
	}
	writePNG(c, imaging.EdgeDetect(img))
}

func (a *API) currentStatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.session.Status())
}

func (a *API) currentImageHandler(c *gin.Context) {
	b, err := a.session.Current()
	if err != nil {
		writeError(c, err)
		return
	}
	writePNG(c, b)
}

func (a *API) currentPredictHandler(c *gin.Context) {
	p, err := a.session.Predict()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// readUpload decodes the multipart field "image". On failure it writes a
// 400 response and returns false.
func readUpload(c *gin.Context) (*imaging.Buffer, bool) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing multipart field \"image\""})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return img, true
}

func writePNG(c *gin.Context, b *imaging.Buffer) {
	data, err := imaging.EncodePNG(b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// writeError maps pipeline errors to status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNoImage):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, classify.ErrDimensionMismatch):
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
