package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/auth"
	"github.com/trezcool/fsnd/core/trivia"
)

var errNoCategories = core.NewNotFoundError("categories")

type (
	categoriesResponse struct {
		Success    bool           `json:"success"`
		Categories map[int]string `json:"categories"`
	}

	questionsResponse struct {
		Success         bool              `json:"success"`
		Questions       []trivia.Question `json:"questions"`
		TotalQuestions  int               `json:"total_questions"`
		Categories      map[int]string    `json:"categories,omitempty"`
		CurrentCategory *int              `json:"current_category"`
	}

	questionResponse struct {
		Success  bool            `json:"success"`
		Question trivia.Question `json:"question"`
	}

	createQuestionResponse struct {
		Success        bool              `json:"success"`
		Created        int               `json:"created"`
		Question       trivia.Question   `json:"question"`
		Questions      []trivia.Question `json:"questions"`
		TotalQuestions int               `json:"total_questions"`
	}

	deleteQuestionResponse struct {
		Success bool `json:"success"`
		Deleted int  `json:"deleted"`
	}

	quizResponse struct {
		Success   bool             `json:"success"`
		Question  *trivia.Question `json:"question"`
		Exhausted bool             `json:"exhausted,omitempty"`
	}
)

type triviaAPI struct {
	svc      *trivia.Service
	validate *validator.Validate
}

func registerTriviaAPI(
	app *echo.Echo,
	requires func(auth.Permission) []echo.MiddlewareFunc,
	svc *trivia.Service,
	validate *validator.Validate,
) {
	api := triviaAPI{svc: svc, validate: validate}

	app.GET("/categories", api.listCategories)
	app.GET("/categories/:id/questions", api.listCategoryQuestions)

	qg := app.Group("/questions")
	qg.GET("", api.listQuestions)
	qg.POST("", api.createQuestion, requires(auth.PermPostQuestions)...)
	qg.POST("/search", api.searchQuestions)
	qg.GET("/:id", api.retrieveQuestion)
	qg.DELETE("/:id", api.deleteQuestion, requires(auth.PermDeleteQuestions)...)

	app.POST("/quizzes", api.playQuiz)
}

// queryPage runs a paginated query; pages past the end are not found.
func (api *triviaAPI) queryPage(ctx echo.Context, filter trivia.QueryFilter) ([]trivia.Question, int, error) {
	pageNum, err := bindPage(ctx)
	if err != nil {
		return nil, 0, err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	questions, total, err := api.svc.Query(ctx.Request().Context(), filter, api.svc.Page(pageNum), ordering.Orderings)
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying questions")
	}
	if len(questions) == 0 && pageNum > 1 {
		return nil, 0, errPageNotFound
	}
	return questions, total, nil
}

func (api *triviaAPI) categoryMap(ctx echo.Context) (map[int]string, error) {
	categories, err := api.svc.Categories(ctx.Request().Context())
	if err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	return trivia.CategoryMap(categories), nil
}

// Handlers

func (api *triviaAPI) listCategories(ctx echo.Context) error {
	categories, err := api.categoryMap(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return errNoCategories
	}
	return ctx.JSON(http.StatusOK, categoriesResponse{Success: true, Categories: categories})
}

func (api *triviaAPI) listQuestions(ctx echo.Context) error {
	questions, total, err := api.queryPage(ctx, trivia.QueryFilter{})
	if err != nil {
		return err
	}
	categories, err := api.categoryMap(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, questionsResponse{
		Success:        true,
		Questions:      questions,
		TotalQuestions: total,
		Categories:     categories,
	})
}

func (api *triviaAPI) listCategoryQuestions(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.GetCategory(ctx.Request().Context(), id); err != nil {
		return err
	}

	questions, total, err := api.queryPage(ctx, trivia.QueryFilter{Category: id})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, questionsResponse{
		Success:         true,
		Questions:       questions,
		TotalQuestions:  total,
		CurrentCategory: &id,
	})
}

func (api *triviaAPI) retrieveQuestion(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	q, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, questionResponse{Success: true, Question: q})
}

func (api *triviaAPI) createQuestion(ctx echo.Context) error {
	var data trivia.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating question")
	}

	questions, total, err := api.svc.Query(ctx.Request().Context(), trivia.QueryFilter{}, api.svc.Page(1), nil)
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	return ctx.JSON(http.StatusCreated, createQuestionResponse{
		Success:        true,
		Created:        q.ID,
		Question:       q,
		Questions:      questions,
		TotalQuestions: total,
	})
}

func (api *triviaAPI) deleteQuestion(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting question")
	}
	return ctx.JSON(http.StatusOK, deleteQuestionResponse{Success: true, Deleted: id})
}

func (api *triviaAPI) searchQuestions(ctx echo.Context) error {
	var data trivia.SearchRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SearchRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	questions, total, err := api.queryPage(ctx, trivia.QueryFilter{Search: data.SearchTerm})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, questionsResponse{
		Success:        true,
		Questions:      questions,
		TotalQuestions: total,
	})
}

func (api *triviaAPI) playQuiz(ctx echo.Context) error {
	var data trivia.QuizRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.NextQuizQuestion(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == trivia.ErrQuizExhausted {
			return ctx.JSON(http.StatusOK, quizResponse{Success: true, Exhausted: true})
		}
		return err
	}
	return ctx.JSON(http.StatusOK, quizResponse{Success: true, Question: &q})
}
