package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/cache"
	"github.com/Additional-Code/playground/internal/config"
	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/logger"
	"github.com/Additional-Code/playground/internal/messaging"
	"github.com/Additional-Code/playground/internal/observability"
	repositorycategory "github.com/Additional-Code/playground/internal/repository/category"
	repositoryorder "github.com/Additional-Code/playground/internal/repository/order"
	repositoryproduct "github.com/Additional-Code/playground/internal/repository/product"
	repositoryuser "github.com/Additional-Code/playground/internal/repository/user"
	"github.com/Additional-Code/playground/internal/seeder"
	httpserver "github.com/Additional-Code/playground/internal/server/http"
	serviceadmin "github.com/Additional-Code/playground/internal/service/admin"
	serviceauth "github.com/Additional-Code/playground/internal/service/auth"
	servicecategory "github.com/Additional-Code/playground/internal/service/category"
	serviceorder "github.com/Additional-Code/playground/internal/service/order"
	serviceproduct "github.com/Additional-Code/playground/internal/service/product"
	serviceuser "github.com/Additional-Code/playground/internal/service/user"
	transporthttp "github.com/Additional-Code/playground/internal/transport/http"
	"github.com/Additional-Code/playground/internal/worker"
	workeraudit "github.com/Additional-Code/playground/internal/worker/audit"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	auth.Module,
	repositoryuser.Module,
	repositorycategory.Module,
	repositoryproduct.Module,
	repositoryorder.Module,
	seeder.Module,
	serviceauth.Module,
	serviceuser.Module,
	servicecategory.Module,
	serviceproduct.Module,
	serviceorder.Module,
	serviceadmin.Module,
)

// HTTP wires the HTTP transport on top of the core modules. The seeder hook
// populates an empty database before the server starts accepting requests.
var HTTP = fx.Options(
	Core,
	seeder.Hook,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workeraudit.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
