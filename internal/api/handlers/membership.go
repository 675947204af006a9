package handlers

import (
	"net/http"

	"clientdesk-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// MembershipHandler handles HTTP requests for memberships and invitations
type MembershipHandler struct {
	membershipService *service.MembershipService
	invitationService *service.InvitationService
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(membershipService *service.MembershipService, invitationService *service.InvitationService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		invitationService: invitationService,
	}
}

// ListMemberships lists the memberships of an organization
// @Summary List organization members
// @Tags memberships
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param limit query int false "Number of items to return" default(50)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Memberships list"
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /organizations/{id}/memberships [get]
func (h *MembershipHandler) ListMemberships(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	memberships, total, err := h.membershipService.List(actor, orgID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"memberships": memberships,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

// Invite invites an email address into the organization
// @Summary Invite a member
// @Description Grant the addressed email a membership. An unknown email gets
// @Description a freshly provisioned identity whose temporary credential is
// @Description delivered out of band, never in this response.
// @Tags memberships
// @Accept json
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param invitation body service.InviteRequest true "Invitation data"
// @Success 201 {object} service.InvitationResponse "Membership granted"
// @Failure 403 {object} ErrorResponse "Requires manage_members"
// @Failure 409 {object} ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /organizations/{id}/invitations [post]
func (h *MembershipHandler) Invite(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	invitation, err := h.invitationService.Invite(actor, orgID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invitation)
}

// UpdateMembershipRole changes a member's role
func (h *MembershipHandler) UpdateMembershipRole(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	membershipID, ok := pathUUID(c, "membershipId")
	if !ok {
		return
	}

	var req service.UpdateMembershipRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	membership, err := h.membershipService.UpdateRole(actor, orgID, membershipID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, membership)
}

// RemoveMembership revokes a membership
func (h *MembershipHandler) RemoveMembership(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	membershipID, ok := pathUUID(c, "membershipId")
	if !ok {
		return
	}

	if err := h.membershipService.Remove(actor, orgID, membershipID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
