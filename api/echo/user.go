package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core/user"
)

type userApi struct {
	opts *Options
}

func registerUserAPI(app *echo.Echo, jwt, admin echo.MiddlewareFunc, opts *Options) {
	api := userApi{opts: opts}

	// sign-in is open: first call creates the account
	app.POST("/user", api.signIn)

	app.GET("/user/role", api.role, jwt)
	app.GET("/users", api.query, jwt)

	// admin-only mutations; the guard runs after token verification
	app.PATCH("/user/:id", api.update, jwt, admin)
	app.DELETE("/user/:id", api.destroy, jwt, admin)
}

// signIn upserts the caller by email and hands out a token for the authed
// endpoints.
func (api *userApi) signIn(ctx echo.Context) error {
	var data user.SignIn
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignIn")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	usr, err := api.opts.UserSvc.SignIn(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing user in")
	}

	token, err := GenerateToken([]byte(api.opts.Conf.SecretKey), GetUserClaims(api.opts.Conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, SignInResponse{User: usr, Token: token})
}

func (api *userApi) role(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, RoleResponse{Role: usr.Role})
}

// query lists everyone but the caller.
func (api *userApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	users, err := api.opts.UserSvc.QueryAllExcept(ctx.Request().Context(), claims.Email)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	orig, err := api.opts.UserSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding user by id")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := data.Validate(orig, api.opts.Validate); err != nil {
		return err
	}

	usr, err := api.opts.UserSvc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	if err := api.opts.UserSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	SignInResponse struct {
		User  user.User `json:"user"`
		Token string    `json:"token"`
	}

	RoleResponse struct {
		Role string `json:"role"`
	}
)
