package http

import (
	"go.uber.org/fx"

	admintransport "github.com/Additional-Code/playground/internal/transport/http/admin"
	authtransport "github.com/Additional-Code/playground/internal/transport/http/auth"
	categorytransport "github.com/Additional-Code/playground/internal/transport/http/category"
	ordertransport "github.com/Additional-Code/playground/internal/transport/http/order"
	producttransport "github.com/Additional-Code/playground/internal/transport/http/product"
	usertransport "github.com/Additional-Code/playground/internal/transport/http/user"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	authtransport.Module,
	usertransport.Module,
	categorytransport.Module,
	producttransport.Module,
	ordertransport.Module,
	admintransport.Module,
)
