// Copyright 2026 The Skiff Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package skiff

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(path string) *Invocation {
	return &Invocation{Method: http.MethodGet, Path: path}
}

func TestDispatchPlainText(t *testing.T) {
	t.Parallel()

	app := MustNew()
	app.GET("/ping", func(c *Context) error {
		return c.Text(http.StatusOK, "pong")
	})

	res, err := app.Dispatch(context.Background(), get("/ping"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status())
	assert.Equal(t, "pong", string(res.Body()))
	assert.Equal(t, "text/plain; charset=utf-8", res.Header().Get("content-type"))
	assert.Equal(t, "4", res.Header().Get("content-length"))
	assert.Equal(t, "skiff", res.Header().Get("x-powered-by"))
}

func TestDispatchJSON(t *testing.T) {
	t.Parallel()

	app := MustNew()
	app.POST("/orders", func(c *Context) error {
		amount := c.Request().JSON("order.amount").Int()
		return c.JSON(http.StatusCreated, map[string]any{"amount": amount})
	})

	res, err := app.Dispatch(context.Background(), &Invocation{
		Method: "post",
		Path:   "/orders",
		Body:   []byte(`{"order":{"amount":250}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.Status())
	assert.JSONEq(t, `{"amount":250}`, string(res.Body()))
	assert.Equal(t, "application/json; charset=utf-8", res.Header().Get("content-type"))
}

func TestDispatchRouteParams(t *testing.T) {
	t.Parallel()

	app := MustNew()
	api := NewRouter()
	api.GET("/:id", func(c *Context) error {
		return c.Text(http.StatusOK, c.Param("id"))
	})
	require.NoError(t, app.Mount("/api", api))

	res, err := app.Dispatch(context.Background(), get("/api/55"))
	require.NoError(t, err)
	assert.Equal(t, "55", string(res.Body()))
}

func TestDispatchTrailingSlashNormalized(t *testing.T) {
	t.Parallel()

	app := MustNew()
	app.GET("/users/:id", func(c *Context) error {
		return c.Text(http.StatusOK, c.Param("id"))
	})

	res, err := app.Dispatch(context.Background(), get("/users/7/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status())
	assert.Equal(t, "7", string(res.Body()))
}

func TestDispatchRouteMiss(t *testing.T) {
	t.Parallel()

	app := MustNew()
	app.GET("/ping", func(c *Context) error {
		return c.Text(http.StatusOK, "pong")
	})

	res, err := app.Dispatch(context.Background(), get("/nope"))
	require.NoError(t, err)
	assert.Equal(t, StatusRouteNotFound, res.Status())
	assert.Equal(t, "Cannot GET '/nope'.", string(res.Body()))
	// Outgoing middleware run on synthetic responses too.
	assert.Equal(t, "skiff", res.Header().Get("x-powered-by"))
}

func TestDispatchNilContext(t *testing.T) {
	t.Parallel()

	app := MustNew()
	app.GET("/", func(c *Context) error {
		return c.Empty(http.StatusNoContent)
	})

	res, err := app.Dispatch(nil, get("/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.Status())
	assert.Empty(t, res.Body())
}

func TestDispatchAssignsInvocationID(t *testing.T) {
	t.Parallel()

	app := MustNew()
	var seen string
	app.GET("/", func(c *Context) error {
		seen = c.Request().ID()
		return c.Empty(http.StatusOK)
	})

	_, err := app.Dispatch(context.Background(), get("/"))
	require.NoError(t, err)
	assert.NotEmpty(t, seen)

	_, err = app.Dispatch(context.Background(), &Invocation{Method: "GET", Path: "/", ID: "given"})
	require.NoError(t, err)
	assert.Equal(t, "given", seen)
}

func TestDispatchMiddlewareErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	app := MustNew()

	var secondRan, handlerRan bool
	app.Use(func(c *Context) error { return boom })
	app.Use(func(c *Context) error { secondRan = true; return nil })
	app.GET("/", func(c *Context) error {
		handlerRan = true
		return c.Empty(http.StatusOK)
	})

	res, err := app.Dispatch(context.Background(), get("/"))
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, res)
	assert.False(t, secondRan)
	assert.False(t, handlerRan)
}

func TestDispatchShortCircuit(t *testing.T) {
	t.Parallel()

	app := MustNew()

	var handlerRan, outgoingRan bool
	app.Use(func(c *Context) error {
		return c.Text(http.StatusUnauthorized, "denied")
	})
	app.UseOutgoing(func(_ *Context, res *Response) error {
		outgoingRan = true
		res.Header().Set("x-intercepted", "yes")
		return nil
	})
	app.GET("/secret", func(c *Context) error {
		handlerRan = true
		return c.Empty(http.StatusOK)
	})

	res, err := app.Dispatch(context.Background(), get("/secret"))
	require.NoError(t, err)
	assert.False(t, handlerRan)
	assert.True(t, outgoingRan)
	assert.Equal(t, http.StatusUnauthorized, res.Status())
	assert.Equal(t, "denied", string(res.Body()))
	assert.Equal(t, "yes", res.Header().Get("x-intercepted"))
}

func TestDispatchSecondResponseFails(t *testing.T) {
	t.Parallel()

	app := MustNew()
	app.GET("/", func(c *Context) error {
		require.NoError(t, c.Text(http.StatusOK, "first"))
		err := c.Text(http.StatusOK, "second")
		assert.ErrorIs(t, err, ErrResponseCommitted)
		return nil
	})

	res, err := app.Dispatch(context.Background(), get("/"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(res.Body()))
}

func TestDispatchHandlerWithoutResponse(t *testing.T) {
	t.Parallel()

	app := MustNew()
	app.GET("/", func(c *Context) error { return nil })

	res, err := app.Dispatch(context.Background(), get("/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.Status())
	assert.Equal(t, internalErrorBody, string(res.Body()))
}

func TestDispatchPoweredBy(t *testing.T) {
	t.Parallel()

	t.Run("custom value", func(t *testing.T) {
		t.Parallel()

		app := MustNew(WithPoweredBy("acme"))
		app.GET("/", func(c *Context) error { return c.Empty(http.StatusOK) })

		res, err := app.Dispatch(context.Background(), get("/"))
		require.NoError(t, err)
		assert.Equal(t, "acme", res.Header().Get("x-powered-by"))
	})

	t.Run("handler value wins", func(t *testing.T) {
		t.Parallel()

		app := MustNew()
		app.GET("/", func(c *Context) error {
			err := c.Empty(http.StatusOK)
			c.Response().Header().Set("x-powered-by", "mine")
			return err
		})

		res, err := app.Dispatch(context.Background(), get("/"))
		require.NoError(t, err)
		assert.Equal(t, "mine", res.Header().Get("x-powered-by"))
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		app := MustNew(WithoutPoweredBy())
		app.GET("/", func(c *Context) error { return c.Empty(http.StatusOK) })

		res, err := app.Dispatch(context.Background(), get("/"))
		require.NoError(t, err)
		assert.False(t, res.Header().Has("x-powered-by"))
	})
}

func TestDispatchRegistryIsolation(t *testing.T) {
	t.Parallel()

	app := MustNew()
	require.NoError(t, app.Inject("Repo", &fakeRepo{name: "seeded"}))

	app.GET("/first", func(c *Context) error {
		repo, err := Retrieve[*fakeRepo](c.Registry(), "Repo")
		require.NoError(t, err)
		assert.Equal(t, "seeded", repo.name)
		if err := c.Inject("Scoped", "only for this invocation"); err != nil {
			return err
		}
		return c.Empty(http.StatusOK)
	})
	app.GET("/second", func(c *Context) error {
		_, err := Retrieve[string](c.Registry(), "Scoped")
		assert.ErrorIs(t, err, ErrInstanceNotFound)
		return c.Empty(http.StatusOK)
	})

	_, err := app.Dispatch(context.Background(), get("/first"))
	require.NoError(t, err)
	_, err = app.Dispatch(context.Background(), get("/second"))
	require.NoError(t, err)
}

func TestDispatchRedirect(t *testing.T) {
	t.Parallel()

	app := MustNew()
	app.GET("/old", func(c *Context) error {
		return c.Redirect(0, "/new")
	})

	res, err := app.Dispatch(context.Background(), get("/old"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, res.Status())
	assert.Equal(t, "/new", res.Header().Get("location"))
	assert.Empty(t, res.Body())
}

func TestDispatchBinary(t *testing.T) {
	t.Parallel()

	app := MustNew()
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	app.GET("/img", func(c *Context) error {
		return c.Binary(http.StatusOK, "image/png", payload)
	})

	res, err := app.Dispatch(context.Background(), get("/img"))
	require.NoError(t, err)
	assert.True(t, res.Binary())
	assert.Equal(t, payload, res.Body())
	assert.Equal(t, "image/png", res.Header().Get("content-type"))
}

func TestDispatchRenderBeforeOutgoing(t *testing.T) {
	t.Parallel()

	app := MustNew(WithViews("views"))
	require.NoError(t, app.Engine("html", EngineFunc(
		func(_ context.Context, file string, options map[string]any) (string, error) {
			return "<h1>" + file + "</h1>", nil
		},
	)))

	var observed string
	app.UseOutgoing(func(_ *Context, res *Response) error {
		observed = string(res.Body())
		return nil
	})
	app.GET("/", func(c *Context) error {
		return c.Render(http.StatusOK, "home", nil)
	})

	res, err := app.Dispatch(context.Background(), get("/"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>views/home.html</h1>", string(res.Body()))
	assert.Equal(t, "<h1>views/home.html</h1>", observed, "outgoing middleware must see the rendered body")
	assert.Equal(t, "text/html; charset=utf-8", res.Header().Get("content-type"))
}

func TestDispatchRenderFailureBecomesInternalError(t *testing.T) {
	t.Parallel()

	app := MustNew()
	require.NoError(t, app.Engine("html", EngineFunc(
		func(context.Context, string, map[string]any) (string, error) {
			return "", errors.New("template exploded")
		},
	)))
	app.GET("/", func(c *Context) error {
		return c.Render(http.StatusOK, "home.html", nil)
	})

	res, err := app.Dispatch(context.Background(), get("/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.Status())
	assert.Equal(t, internalErrorBody, string(res.Body()))
	assert.NotContains(t, string(res.Body()), "exploded")
}

func TestDispatchQueryAndTrigger(t *testing.T) {
	t.Parallel()

	app := MustNew()
	app.GET("/search", func(c *Context) error {
		assert.Equal(t, "gophers", c.Request().Query("q"))
		assert.Equal(t, "schedule", c.Request().Trigger().Type)
		return c.Empty(http.StatusOK)
	})

	_, err := app.Dispatch(context.Background(), &Invocation{
		Method:  http.MethodGet,
		Path:    "/search",
		Query:   map[string]string{"q": "gophers"},
		Trigger: Trigger{Type: "schedule", Source: "cron"},
	})
	require.NoError(t, err)
}
