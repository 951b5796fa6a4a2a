package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weblog/internal/services"
)

// BlogHandler handles HTTP requests for posts and categories.
type BlogHandler struct {
	service  *services.BlogService
	validate *validator.Validate
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(service *services.BlogService) *BlogHandler {
	return &BlogHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the read routes. Fiber matches routes in
// registration order, so these must be registered before any group carrying
// the auth middleware is created on the same prefix.
func (h *BlogHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/blog", h.HandleGetBlog)
	router.Get("/posts", h.HandleGetPosts)
	router.Get("/posts/:id", h.HandleGetPostByID)
	router.Get("/categories", h.HandleGetCategories)
}

// RegisterProtectedRoutes registers the mutating routes on a router that
// already carries the auth middleware.
func (h *BlogHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/posts", h.HandleAddPost)
	router.Delete("/posts/:id", h.HandleDeletePost)
	router.Post("/categories", h.HandleAddCategory)
	router.Delete("/categories/:id", h.HandleDeleteCategory)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// HandleGetBlog returns published posts, optionally narrowed to one
// category.
func (h *BlogHandler) HandleGetBlog(c *fiber.Ctx) error {
	if raw := c.Query("category"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid category id",
			})
		}
		posts, err := h.service.GetPublishedPostsByCategory(uint(categoryID))
		if err != nil {
			log.Printf("Error getting published posts for category %d: %v", categoryID, err)
			return c.Status(statusFromError(err)).JSON(fiber.Map{
				"message": "Could not retrieve posts",
			})
		}
		return c.JSON(posts)
	}

	posts, err := h.service.GetPublishedPosts()
	if err != nil {
		log.Printf("Error getting published posts: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve posts",
		})
	}
	return c.JSON(posts)
}

// HandleGetPosts returns all posts, narrowed by the category or minDate
// query parameter when present. An empty result is a 200 with an empty
// array.
func (h *BlogHandler) HandleGetPosts(c *fiber.Ctx) error {
	var err error
	var posts interface{}

	switch {
	case c.Query("category") != "":
		var categoryID uint64
		categoryID, err = strconv.ParseUint(c.Query("category"), 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid category id",
			})
		}
		posts, err = h.service.GetPostsByCategory(uint(categoryID))
	case c.Query("minDate") != "":
		posts, err = h.service.GetPostsByMinDate(c.Query("minDate"))
	default:
		posts, err = h.service.GetAllPosts()
	}

	if err != nil {
		log.Printf("Error getting posts: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve posts",
			"error":   clientMessage(err),
		})
	}
	return c.JSON(posts)
}

// HandleGetPostByID returns the single post with the given id.
func (h *BlogHandler) HandleGetPostByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid post id",
		})
	}

	post, err := h.service.GetPostByID(id)
	if err != nil {
		log.Printf("Error getting post %d: %v", id, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve post",
			"error":   clientMessage(err),
		})
	}
	return c.JSON(post)
}

// HandleAddPost creates a new post.
func (h *BlogHandler) HandleAddPost(c *fiber.Ctx) error {
	var req services.PostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add post request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	post, err := h.service.AddPost(req)
	if err != nil {
		log.Printf("Error adding post: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not create post",
			"error":   clientMessage(err),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleDeletePost removes a post by its id.
func (h *BlogHandler) HandleDeletePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid post id",
		})
	}

	if err := h.service.DeletePostByID(id); err != nil {
		log.Printf("Error deleting post %d: %v", id, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not delete post",
			"error":   clientMessage(err),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Post deleted successfully",
	})
}

// HandleGetCategories returns every category.
func (h *BlogHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories()
	if err != nil {
		log.Printf("Error getting categories: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve categories",
		})
	}
	return c.JSON(categories)
}

// HandleAddCategory creates a new category.
func (h *BlogHandler) HandleAddCategory(c *fiber.Ctx) error {
	var req services.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add category request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	category, err := h.service.AddCategory(req)
	if err != nil {
		log.Printf("Error adding category: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not create category",
			"error":   clientMessage(err),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleDeleteCategory removes a category by its id.
func (h *BlogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category id",
		})
	}

	if err := h.service.DeleteCategoryByID(id); err != nil {
		log.Printf("Error deleting category %d: %v", id, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not delete category",
			"error":   clientMessage(err),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
	})
}
