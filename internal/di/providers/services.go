package providers

import (
	"github.com/samber/do/v2"

	"github.com/readcircle/readcircle-server/internal/auth"
	"github.com/readcircle/readcircle-server/internal/logger"
	"github.com/readcircle/readcircle-server/internal/service"
)

// ProvideWrapperSynchronizer provides the reading-state fan-out synchronizer.
func ProvideWrapperSynchronizer(i do.Injector) (*service.WrapperSynchronizer, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewWrapperSynchronizer(storeHandle.Store, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, log.Logger), nil
}

// ProvideUserService provides the user profile service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}

// ProvideBookService provides the book catalog service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, log.Logger), nil
}

// ProvideBookshelfService provides the bookshelf service.
func ProvideBookshelfService(i do.Injector) (*service.BookshelfService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sync := do.MustInvoke[*service.WrapperSynchronizer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookshelfService(storeHandle.Store, sync, log.Logger), nil
}

// ProvideCircleService provides the circle membership service.
func ProvideCircleService(i do.Injector) (*service.CircleService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sync := do.MustInvoke[*service.WrapperSynchronizer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCircleService(storeHandle.Store, sync, log.Logger), nil
}

// ProvideCategoryService provides the category service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCategoryService(storeHandle.Store, log.Logger), nil
}

// ProvideReadingService provides the reading-state service.
func ProvideReadingService(i do.Injector) (*service.ReadingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReadingService(storeHandle.Store, log.Logger), nil
}

// ProvideInsightService provides the reading-insights service.
func ProvideInsightService(i do.Injector) (*service.InsightService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInsightService(storeHandle.Store, log.Logger), nil
}
