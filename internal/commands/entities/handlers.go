package entitiescmd

import (
	"context"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-translatable/internal/commands"
	"github.com/goliatone/go-translatable/internal/entities"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// CreateEntityHandler creates entities via the entity service.
type CreateEntityHandler struct {
	inner *commands.Handler[CreateEntityCommand]
}

// NewCreateEntityHandler constructs a handler wired to the provided entity service.
func NewCreateEntityHandler(service entities.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CreateEntityCommand]) *CreateEntityHandler {
	exec := func(ctx context.Context, msg CreateEntityCommand) error {
		_, err := service.Create(ctx, entities.CreateRequest{
			Kind:         msg.Kind,
			ID:           msg.ID,
			Attributes:   msg.Attributes,
			Translations: msg.Translations,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[CreateEntityCommand]{
		commands.WithLogger[CreateEntityCommand](logger),
		commands.WithOperation[CreateEntityCommand]("entities.create"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateEntityHandler{
		inner: commands.NewHandler[CreateEntityCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CreateEntityCommand].Execute.
func (h *CreateEntityHandler) Execute(ctx context.Context, msg CreateEntityCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpdateEntityHandler updates entities via the entity service.
type UpdateEntityHandler struct {
	inner *commands.Handler[UpdateEntityCommand]
}

// NewUpdateEntityHandler constructs a handler wired to the provided entity service.
func NewUpdateEntityHandler(service entities.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateEntityCommand]) *UpdateEntityHandler {
	exec := func(ctx context.Context, msg UpdateEntityCommand) error {
		_, err := service.Update(ctx, entities.UpdateRequest{
			Kind:         msg.Kind,
			ID:           msg.ID,
			Attributes:   msg.Attributes,
			Translations: msg.Translations,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[UpdateEntityCommand]{
		commands.WithLogger[UpdateEntityCommand](logger),
		commands.WithOperation[UpdateEntityCommand]("entities.update"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpdateEntityHandler{
		inner: commands.NewHandler[UpdateEntityCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UpdateEntityCommand].Execute.
func (h *UpdateEntityHandler) Execute(ctx context.Context, msg UpdateEntityCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteEntityHandler deletes entities via the entity service.
type DeleteEntityHandler struct {
	inner *commands.Handler[DeleteEntityCommand]
}

// NewDeleteEntityHandler constructs a handler wired to the provided entity service.
func NewDeleteEntityHandler(service entities.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteEntityCommand]) *DeleteEntityHandler {
	exec := func(ctx context.Context, msg DeleteEntityCommand) error {
		return service.Delete(ctx, entities.DeleteRequest{Kind: msg.Kind, ID: msg.ID})
	}

	handlerOpts := []commands.HandlerOption[DeleteEntityCommand]{
		commands.WithLogger[DeleteEntityCommand](logger),
		commands.WithOperation[DeleteEntityCommand]("entities.delete"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteEntityHandler{
		inner: commands.NewHandler[DeleteEntityCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteEntityCommand].Execute.
func (h *DeleteEntityHandler) Execute(ctx context.Context, msg DeleteEntityCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Handlers groups the entity command handlers for registration.
type Handlers struct {
	Create *CreateEntityHandler
	Update *UpdateEntityHandler
	Delete *DeleteEntityHandler
}

// NewHandlers builds every entity handler with loggers derived from provider.
func NewHandlers(service entities.Service, provider interfaces.LoggerProvider) Handlers {
	return Handlers{
		Create: NewCreateEntityHandler(service, commands.CommandLogger(provider, "entities.create")),
		Update: NewUpdateEntityHandler(service, commands.CommandLogger(provider, "entities.update")),
		Delete: NewDeleteEntityHandler(service, commands.CommandLogger(provider, "entities.delete")),
	}
}

// Subscribe registers every handler with the go-command dispatcher so the
// commands can be sent through dispatcher.Dispatch. The returned function
// removes the subscriptions.
func (h Handlers) Subscribe() func() {
	subs := []interface{ Unsubscribe() }{
		dispatcher.SubscribeCommand[CreateEntityCommand](h.Create),
		dispatcher.SubscribeCommand[UpdateEntityCommand](h.Update),
		dispatcher.SubscribeCommand[DeleteEntityCommand](h.Delete),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
