package v1

import (
	"net/http"

	"github.com/budget-tracker/backend/internal/httputil"
	"github.com/budget-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCategoryList)
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategories)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", co.OptionsCategoryDetail)
		r.GET("/:id", co.GetCategory)
		r.PATCH("/:id", co.UpdateCategory)
		r.DELETE("/:id", co.DeleteCategory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func OptionsCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint64	true	"ID formatted as string"
// @Router			/v1/categories/{id} [options]
func (co Controller) OptionsCategoryDetail(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	_, err = co.Store.Category(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create categories
// @Description	Creates new categories. Their allocation is added to the allocation of their budget.
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		201			{object}	CategoryCreateResponse
// @Failure		400			{object}	CategoryCreateResponse
// @Failure		404			{object}	CategoryCreateResponse
// @Failure		500			{object}	CategoryCreateResponse
// @Param			categories	body		[]CategoryEditable	true	"Categories"
// @Router			/v1/categories [post]
func (co Controller) CreateCategories(c *gin.Context) {
	var categories []CategoryEditable

	err := httputil.BindData(c, &categories)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CategoryCreateResponse{}

	for _, editable := range categories {
		category, err := co.Store.AddCategory(c.Request.Context(), editable.model())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newCategory(c, category)
		r.Data = append(r.Data, CategoryResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List categories
// @Description	Returns the categories of a budget in the order they were created
// @Tags			Categories
// @Produce		json
// @Success		200		{object}	CategoryListResponse
// @Failure		400		{object}	CategoryListResponse
// @Failure		404		{object}	CategoryListResponse
// @Failure		500		{object}	CategoryListResponse
// @Param			budget	query		uint64	true	"By ID of the budget"
// @Param			name	query		string	false	"By name, * matches any number of characters"
// @Router			/v1/categories [get]
func (co Controller) GetCategories(c *gin.Context) {
	var filter CategoryQueryFilter
	err := bindQuery(c, &filter)
	if err == nil && filter.BudgetID == 0 {
		err = errBudgetParameter
	}

	if err != nil {
		failWith[CategoryListResponse](c, err)
		return
	}

	// A missing budget is reported instead of an empty list
	_, err = co.Store.Budget(c.Request.Context(), filter.BudgetID)
	if err != nil {
		failWith[CategoryListResponse](c, err)
		return
	}

	categories, err := co.Store.Categories(c.Request.Context(), filter.BudgetID)
	if err != nil {
		failWith[CategoryListResponse](c, err)
		return
	}

	// The name filter is only applied when set. An empty name only
	// matches categories without a name
	setFields := httputil.GetURLFields(c.Request.URL, filter)
	filterName := slices.Contains(setFields, "Name")

	data := make([]Category, 0, len(categories))
	for _, category := range categories {
		if filterName && !glob.Glob(filter.Name, category.Name) {
			continue
		}

		data = append(data, newCategory(c, category))
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: data})
}

// @Summary		Get category
// @Description	Returns a specific category
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryResponse
// @Failure		400	{object}	CategoryResponse
// @Failure		404	{object}	CategoryResponse
// @Failure		500	{object}	CategoryResponse
// @Param			id	path		uint64	true	"ID formatted as string"
// @Router			/v1/categories/{id} [get]
func (co Controller) GetCategory(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		failWith[CategoryResponse](c, err)
		return
	}

	category, err := co.Store.Category(c.Request.Context(), id)
	if err != nil {
		failWith[CategoryResponse](c, err)
		return
	}

	data := newCategory(c, category)
	c.JSON(http.StatusOK, CategoryResponse{Data: &data})
}

// @Summary		Update category
// @Description	Update an existing category. Only values to be updated need to be specified. The difference in allocation is applied to the budget.
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		200			{object}	CategoryResponse
// @Failure		400			{object}	CategoryResponse
// @Failure		404			{object}	CategoryResponse
// @Failure		500			{object}	CategoryResponse
// @Param			id			path		uint64				true	"ID formatted as string"
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/v1/categories/{id} [patch]
func (co Controller) UpdateCategory(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		failWith[CategoryResponse](c, err)
		return
	}

	category, err := co.Store.Category(c.Request.Context(), id)
	if err != nil {
		failWith[CategoryResponse](c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CategoryEditable{})
	if err != nil {
		failWith[CategoryResponse](c, err)
		return
	}

	var data CategoryEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		failWith[CategoryResponse](c, err)
		return
	}

	if slices.Contains(updateFields, "BudgetID") && data.BudgetID != category.BudgetID {
		failWith[CategoryResponse](c, errCategoryBudgetChanged)
		return
	}

	if slices.Contains(updateFields, "Name") {
		category.Name = data.Name
	}

	if slices.Contains(updateFields, "Note") {
		category.Note = data.Note
	}

	if slices.Contains(updateFields, "Allocation") {
		category.Allocation = data.Allocation
	}

	category, err = co.Store.EditCategory(c.Request.Context(), category)
	if err != nil {
		failWith[CategoryResponse](c, err)
		return
	}

	apiResource := newCategory(c, category)
	c.JSON(http.StatusOK, CategoryResponse{Data: &apiResource})
}

// @Summary		Delete category
// @Description	Deletes a category with all its expenses. Deleting a category that does not exist succeeds.
// @Tags			Categories
// @Success		204
// @Failure		400				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			id				path		uint64	true	"ID formatted as string"
// @Param			reverseAmounts	query		bool	false	"Subtract the allocation and spent amount of the category from its budget. Defaults to true."
// @Router			/v1/categories/{id} [delete]
func (co Controller) DeleteCategory(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	reverse, err := reverseAmounts(c)
	if err != nil {
		fail(c, err)
		return
	}

	err = co.Store.RemoveCategory(c.Request.Context(), models.Category{DefaultModel: models.DefaultModel{ID: id}}, reverse)
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
