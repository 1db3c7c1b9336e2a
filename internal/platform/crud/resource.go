// Package crud provides the generic HTTP surface shared by every entity:
// list, get, create, update and delete over a db.Repository, with DTO
// mapping and one unit of work per write.
package crud

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/pkg/pagination"
)

// Store is the part of db.Repository the generic handler uses.
type Store[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
	Find(ctx context.Context, q *db.Query) ([]*T, error)
	Count(ctx context.Context, q *db.Query) (int, error)
	Add(ctx context.Context, e *T) (*T, error)
	Update(ctx context.Context, e *T) (*T, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Access names the policies guarding a mounted resource. Delete defaults to Write.
type Access struct {
	Read   auth.Policy
	Write  auth.Policy
	Delete *auth.Policy
}

// Resource serves one entity T through its DTO D.
type Resource[T any, D any] struct {
	Store Store[T]
	Tx    db.Transactor
	ToDTO func(*T) D
	// Apply copies the writable DTO fields onto the entity.
	Apply func(*D, *T)
	// Prepare validates and fills defaults before every insert and update.
	Prepare func(ctx context.Context, e *T) error
	// Filter narrows the list endpoint from query parameters.
	Filter  func(c echo.Context, q *db.Query) error
	OrderBy string
	// Created runs inside the unit of work after a successful insert.
	Created func(ctx context.Context, e *T)
}

// Mount registers GET/POST path and GET/PUT/DELETE path/:id on g.
func (r *Resource[T, D]) Mount(g *echo.Group, path string, a Access) {
	read := auth.RequirePolicy(a.Read)
	write := auth.RequirePolicy(a.Write)
	del := write
	if a.Delete != nil {
		del = auth.RequirePolicy(*a.Delete)
	}

	g.GET(path, r.List, read)
	g.GET(path+"/:id", r.Get, read)
	g.POST(path, r.Create, write)
	g.PUT(path+"/:id", r.Update, write)
	g.DELETE(path+"/:id", r.Delete, del)
}

func (r *Resource[T, D]) tx() db.Transactor {
	if r.Tx == nil {
		return db.NopTransactor{}
	}
	return r.Tx
}

func (r *Resource[T, D]) List(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	q := db.NewQuery()
	if r.Filter != nil {
		if err := r.Filter(c, q); err != nil {
			return HTTPError(err)
		}
	}
	total, err := r.Store.Count(ctx, q)
	if err != nil {
		return HTTPError(err)
	}

	orderBy := r.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	items, err := r.Store.Find(ctx, q.OrderBy(orderBy).Page(pg.Page, pg.PageSize))
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(MapAll(items, r.ToDTO), total, pg))
}

func (r *Resource[T, D]) Get(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}
	e, err := r.Store.GetByID(c.Request().Context(), id)
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, r.ToDTO(e))
}

func (r *Resource[T, D]) Create(c echo.Context) error {
	var dto D
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var e T
	r.Apply(&dto, &e)

	var saved *T
	err := r.tx().WithinUnitOfWork(c.Request().Context(), func(ctx context.Context) error {
		if r.Prepare != nil {
			if err := r.Prepare(ctx, &e); err != nil {
				return err
			}
		}
		var err error
		if saved, err = r.Store.Add(ctx, &e); err != nil {
			return err
		}
		if r.Created != nil {
			r.Created(ctx, saved)
		}
		return nil
	})
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusCreated, r.ToDTO(saved))
}

func (r *Resource[T, D]) Update(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}
	var dto D
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var saved *T
	err = r.tx().WithinUnitOfWork(c.Request().Context(), func(ctx context.Context) error {
		e, err := r.Store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		r.Apply(&dto, e)
		if r.Prepare != nil {
			if err := r.Prepare(ctx, e); err != nil {
				return err
			}
		}
		saved, err = r.Store.Update(ctx, e)
		return err
	})
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, r.ToDTO(saved))
}

func (r *Resource[T, D]) Delete(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}
	err = r.tx().WithinUnitOfWork(c.Request().Context(), func(ctx context.Context) error {
		return r.Store.DeleteByID(ctx, id)
	})
	if err != nil {
		return HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ParseID reads a positive int64 path parameter.
func ParseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// QueryID reads an optional positive int64 query parameter; ok is false when absent.
func QueryID(c echo.Context, name string) (id int64, ok bool, err error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, true, nil
}

// QueryTime reads an optional RFC 3339 query parameter; ok is false when absent.
// A bare date (2006-01-02) is accepted as midnight UTC.
func QueryTime(c echo.Context, name string) (t time.Time, ok bool, err error) {
	v := c.QueryParam(name)
	if v == "" {
		return time.Time{}, false, nil
	}
	if t, err = time.Parse(time.RFC3339, v); err == nil {
		return t, true, nil
	}
	if t, err = time.Parse(time.DateOnly, v); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+": expected RFC 3339 or YYYY-MM-DD")
}

// MapAll converts entities to DTOs; nil input yields an empty, non-nil slice.
func MapAll[T any, D any](items []*T, fn func(*T) D) []D {
	out := make([]D, 0, len(items))
	for _, e := range items {
		out = append(out, fn(e))
	}
	return out
}

// List writes items as a JSON array of DTOs, or maps err.
func List[T any, D any](c echo.Context, items []*T, err error, fn func(*T) D) error {
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, MapAll(items, fn))
}

// One writes a single DTO, or maps err.
func One[T any, D any](c echo.Context, e *T, err error, fn func(*T) D) error {
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, fn(e))
}

// ListBy serves a list keyed by the positive int64 path parameter param.
func ListBy[T any, D any](param string, fn func(context.Context, int64) ([]*T, error), toDTO func(*T) D) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := ParseID(c, param)
		if err != nil {
			return err
		}
		items, err := fn(c.Request().Context(), id)
		return List(c, items, err, toDTO)
	}
}
