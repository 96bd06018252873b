package service

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewIdentityService),
	fx.Provide(NewProjectService),
	fx.Provide(NewWorkflowService),
	fx.Provide(NewMailService),
	fx.Provide(NewInviteService),
	fx.Provide(NewWorkspaceService),
	fx.Provide(NewMarketService),
	fx.Provide(NewPresenceService),
)
