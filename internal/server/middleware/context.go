package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/vats98754/auto-kg/backend/pkg/extract"
	"github.com/vats98754/auto-kg/backend/pkg/query"
	"github.com/vats98754/auto-kg/backend/pkg/store"
)

// App bundles the long-lived dependencies handlers need: the graph
// store, the extraction pipeline, the query engine and the optional
// queue, S3 and auth clients. Queue and S3 are nil in standalone mode,
// in which case uploads are processed synchronously in the request.
type App struct {
	Store     store.GraphStorage
	Extractor *extract.Extractor
	Query     *query.Engine

	Queue *amqp091.Channel
	S3    *s3.Client

	Key          *keyfunc.Keyfunc
	MasterAPIKey string
}

// AppContext wraps the echo context with application state.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the shared App to every request.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
