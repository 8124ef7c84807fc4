package mediator

import (
	"context"
	"reflect"
)

// dispatchRequest drives one send-for-response or send-void dispatch
// (spec §4.6): resolve collaborators, compose the pipeline, run it, and
// on failure offer the exception processor a chance to recover before
// giving up. It is the single engine behind both Send and SendVoid —
// SendVoid simply fixes TRes to Unit.
func dispatchRequest[TReq Request[TRes], TRes any](ctx context.Context, loc Locator, hooks *hookSet, req TReq) (TRes, error) {
	msgReflectType := reflect.TypeOf(req)
	msgType := msgReflectType.String()

	inv := loadOrBuildInvoker(msgReflectType, requestHandlerType[TReq, TRes])

	handler, err := resolveOneByType[RequestHandler[TReq, TRes]](loc, inv.serviceType, msgType, inv.role)
	if err != nil {
		var zero TRes
		hooks.fireFailure(ctx, msgType, err)
		return zero, err
	}

	pre, err := resolveAll[PreProcessor[TReq, TRes]](loc, "PreProcessor")
	if err != nil {
		var zero TRes
		hooks.fireFailure(ctx, msgType, err)
		return zero, err
	}
	post, err := resolveAll[PostProcessor[TReq, TRes]](loc, "PostProcessor")
	if err != nil {
		var zero TRes
		hooks.fireFailure(ctx, msgType, err)
		return zero, err
	}
	mws, err := resolveAll[RequestMiddleware[TReq, TRes]](loc, "RequestMiddleware")
	if err != nil {
		var zero TRes
		hooks.fireFailure(ctx, msgType, err)
		return zero, err
	}

	hooks.firePreProcess(ctx, msgType)

	base := RequestHandlerFunc[TReq, TRes](func(ctx context.Context, req TReq) (TRes, error) {
		hooks.fireHandle(ctx, msgType)
		return handler.Handle(ctx, req)
	})

	pipeline := composeRequest(pre, mws, base, post)

	resp, err := pipeline(ctx, req)
	if err == nil {
		hooks.fireSuccess(ctx, msgType)
		return resp, nil
	}

	recovered, value, rerr := processRequestException[TReq, TRes](ctx, loc, req, err, hooks)
	if rerr != nil {
		var zero TRes
		hooks.fireFailure(ctx, msgType, rerr)
		return zero, rerr
	}
	if recovered {
		hooks.fireRecovered(ctx, msgType, err)
		hooks.fireSuccess(ctx, msgType)
		return value, nil
	}

	hooks.fireFailure(ctx, msgType, err)
	var zero TRes
	return zero, err
}
