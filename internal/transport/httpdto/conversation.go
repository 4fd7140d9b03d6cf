package httpdto

type CreateConversationRequest struct {
	MemberID string `json:"member_id" binding:"required"`
}
