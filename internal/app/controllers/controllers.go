// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/middleware"
	"github.com/yigit/researchdesk/internal/pkg/validation"
)

// ok writes a successful envelope.
func ok(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewSuccessResponse(data, message))
}

// bindFailed reports a binding failure as field messages.
func bindFailed(ctx *gin.Context, err error) {
	middleware.HandleAPIError(ctx, validation.FromBindError(err))
}

// memberLinker is the membership half of the research and publication
// services.
type memberLinker interface {
	AddMember(ctx context.Context, id, memberID int64) (bool, error)
	RemoveMember(ctx context.Context, id, memberID int64) error
}

// addMember links the member named in the body to the owner in the path.
// A pair that already exists is reported with 200 and left as is.
func addMember(ctx *gin.Context, svc memberLinker) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.MembershipRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindFailed(ctx, err)
		return
	}

	added, err := svc.AddMember(ctx.Request.Context(), id, req.MemberID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !added {
		ok(ctx, http.StatusOK, nil, "Member is already linked")
		return
	}
	ok(ctx, http.StatusCreated, nil, "Member added successfully")
}

func removeMember(ctx *gin.Context, svc memberLinker) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	memberID, valid := middleware.ParseIDParam(ctx, "memberId")
	if !valid {
		return
	}
	if err := svc.RemoveMember(ctx.Request.Context(), id, memberID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, nil, "Member removed successfully")
}
