package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core/auth"
	"github.com/trezcool/fsnd/core/coffee"
)

type (
	shortDrinksResponse struct {
		Success bool                `json:"success"`
		Drinks  []coffee.ShortDrink `json:"drinks"`
	}

	drinksResponse struct {
		Success bool           `json:"success"`
		Drinks  []coffee.Drink `json:"drinks"`
	}

	deleteDrinkResponse struct {
		Success bool `json:"success"`
		Delete  int  `json:"delete"`
	}
)

type coffeeAPI struct {
	svc      *coffee.Service
	validate *validator.Validate
}

func registerCoffeeAPI(
	app *echo.Echo,
	requires func(auth.Permission) []echo.MiddlewareFunc,
	svc *coffee.Service,
	validate *validator.Validate,
) {
	api := coffeeAPI{svc: svc, validate: validate}

	app.GET("/drinks", api.listDrinks)
	app.GET("/drinks-detail", api.listDrinksDetail, requires(auth.PermGetDrinksDetail)...)
	app.POST("/drinks", api.createDrink, requires(auth.PermPostDrinks)...)
	app.PATCH("/drinks/:id", api.updateDrink, requires(auth.PermPatchDrinks)...)
	app.DELETE("/drinks/:id", api.deleteDrink, requires(auth.PermDeleteDrinks)...)
}

func (api *coffeeAPI) query(ctx echo.Context) ([]coffee.Drink, error) {
	filter := coffee.QueryFilter{Search: ctx.QueryParam("search")}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	drinks, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return nil, errors.Wrap(err, "querying drinks")
	}
	return drinks, nil
}

// Handlers

func (api *coffeeAPI) listDrinks(ctx echo.Context) error {
	drinks, err := api.query(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, shortDrinksResponse{Success: true, Drinks: coffee.ShortDrinks(drinks)})
}

func (api *coffeeAPI) listDrinksDetail(ctx echo.Context) error {
	drinks, err := api.query(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, drinksResponse{Success: true, Drinks: coffee.LongDrinks(drinks)})
}

func (api *coffeeAPI) createDrink(ctx echo.Context) error {
	var data coffee.NewDrink
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDrink")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	d, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating drink")
	}
	return ctx.JSON(http.StatusOK, drinksResponse{Success: true, Drinks: []coffee.Drink{d.Long()}})
}

func (api *coffeeAPI) updateDrink(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	orig, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	var data coffee.UpdateDrink
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDrink")
	}
	if err = data.Validate(ctx.Request().Context(), orig, api.validate, api.svc); err != nil {
		return err
	}

	d, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating drink")
	}
	return ctx.JSON(http.StatusOK, drinksResponse{Success: true, Drinks: []coffee.Drink{d.Long()}})
}

func (api *coffeeAPI) deleteDrink(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting drink")
	}
	return ctx.JSON(http.StatusOK, deleteDrinkResponse{Success: true, Delete: id})
}
