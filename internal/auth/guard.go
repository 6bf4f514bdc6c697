package auth

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/agency-admin/internal/events"
	"github.com/spec-kit/agency-admin/internal/rbac"
	apperrors "github.com/spec-kit/agency-admin/pkg/util"
)

const sessionKey = "auth_session"

// Session is the resolved access context attached to authorized requests.
type Session struct {
	Identity       *Identity
	Roles          rbac.RoleSet // roles the principal asserted
	EffectiveRole  rbac.Role
	EffectiveRoles rbac.RoleSet // set used for path authorization
	Escalation     bool         // an assumed_role cookie was rejected
}

// Guard resolves the access decision for inbound requests. Every
// invocation is a fresh run seeded from that request's cookies and
// headers; the guard holds no state across requests.
type Guard struct {
	verifier   Verifier
	alternates []string
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewGuard constructs the guard. Alternate cookie names are consulted for
// the credential after auth_token.
func NewGuard(verifier Verifier, dispatcher events.Dispatcher, logger *zap.Logger, alternates ...string) *Guard {
	return &Guard{verifier: verifier, alternates: alternates, dispatcher: dispatcher, logger: logger}
}

// resolve runs extraction, verification, and role resolution. A non-nil
// DomainError means the request is denied with that reason.
func (g *Guard) resolve(c *fiber.Ctx) (*Session, *apperrors.DomainError) {
	cookieHeader := c.Get(fiber.HeaderCookie)
	credential := Credential(cookieHeader, c.Get(fiber.HeaderAuthorization), g.alternates...)
	if credential == "" {
		return nil, apperrors.NewDomainError(apperrors.CodeAuthenticationRequired, "authentication required", http.StatusUnauthorized, nil)
	}

	identity, err := g.verifier.Verify(c.UserContext(), credential)
	if err != nil || identity == nil {
		return nil, apperrors.NewDomainError(apperrors.CodeInvalidToken, "credential verification failed", http.StatusUnauthorized, nil)
	}

	hints := ExtractRoleHints(cookieHeader)
	asserted := g.assertedRoles(identity, hints)
	highest := rbac.HighestRole(asserted)

	session := &Session{
		Identity:       identity,
		Roles:          asserted,
		EffectiveRole:  highest,
		EffectiveRoles: rbac.NewRoleSet(highest),
	}

	if hints.Assumed != "" {
		if rbac.CanAssume(highest, hints.Assumed) {
			session.EffectiveRole = hints.Assumed
			session.EffectiveRoles = rbac.NewRoleSet(hints.Assumed)
		} else {
			// A rejected assumption is a tampering signal; record it and
			// continue under the actual highest role.
			session.Escalation = true
			g.logger.Warn("assumed role rejected",
				zap.String("principal_id", identity.ID),
				zap.String("highest_role", string(highest)),
				zap.String("assumed_role", string(hints.Assumed)))
			g.publish(c, events.Event{
				Type:       events.EventEscalationAttempt,
				ActorID:    identity.ID,
				ActorEmail: identity.Email,
				Path:       c.Path(),
				Detail:     "assumed_role=" + string(hints.Assumed) + " highest=" + string(highest),
			})
		}
	}

	return session, nil
}

// assertedRoles builds the role set per precedence: multi-role cookie,
// then single role cookie, then the credential's base role, then the
// default role.
func (g *Guard) assertedRoles(identity *Identity, hints RoleHints) rbac.RoleSet {
	if len(hints.Roles) > 0 {
		return rbac.NewRoleSet(hints.Roles...)
	}
	if hints.Role != "" {
		return rbac.NewRoleSet(hints.Role)
	}
	if identity.Role != "" {
		return rbac.NewRoleSet(identity.Role)
	}
	return rbac.NewRoleSet(rbac.DefaultRole)
}

// RequireAccess protects API routes. Denials carry a stable reason code in
// a small JSON body; successful resolution attaches the session to the
// request and invokes the downstream handler.
func (g *Guard) RequireAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, denial := g.resolve(c)
		if denial != nil {
			return c.Status(denial.HTTPStatus).JSON(fiber.Map{"error": denial.Code})
		}

		if !rbac.IsAuthorized(c.Path(), session.EffectiveRoles) {
			g.publish(c, events.Event{
				Type:       events.EventAccessDenied,
				ActorID:    session.Identity.ID,
				ActorEmail: session.Identity.Email,
				Path:       c.Path(),
				Detail:     "effective_role=" + string(session.EffectiveRole),
			})
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": apperrors.CodeAccessDenied})
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// RequireActualAccess protects routes that must stay reachable while an
// assumed role is active, such as ending an impersonation. The path check
// runs against the principal's actual highest role instead of the assumed
// one; the attached session is otherwise identical to RequireAccess.
func (g *Guard) RequireActualAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, denial := g.resolve(c)
		if denial != nil {
			return c.Status(denial.HTTPStatus).JSON(fiber.Map{"error": denial.Code})
		}

		actual := rbac.NewRoleSet(rbac.HighestRole(session.Roles))
		if !rbac.IsAuthorized(c.Path(), actual) {
			g.publish(c, events.Event{
				Type:       events.EventAccessDenied,
				ActorID:    session.Identity.ID,
				ActorEmail: session.Identity.Email,
				Path:       c.Path(),
				Detail:     "actual_role=" + string(rbac.HighestRole(session.Roles)),
			})
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": apperrors.CodeAccessDenied})
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// Page routes portal navigation. Failures redirect to the login page with
// a human-readable reason; success redirects to the requested section or,
// for the bare portal entry, to the effective role's landing path.
func (g *Guard) Page() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, denial := g.resolve(c)
		if denial != nil {
			if denial.Code == apperrors.CodeAuthenticationRequired {
				return c.Redirect("/login?error="+apperrors.CodeAuthenticationRequired, fiber.StatusFound)
			}
			return c.Redirect("/login?error="+apperrors.CodeSessionInvalid, fiber.StatusFound)
		}

		target := "/" + strings.Trim(c.Params("*"), "/")
		if target == "/" {
			target = rbac.PortalPath(session.EffectiveRole)
		}

		if !rbac.IsAuthorized(target, session.EffectiveRoles) {
			g.publish(c, events.Event{
				Type:       events.EventAccessDenied,
				ActorID:    session.Identity.ID,
				ActorEmail: session.Identity.Email,
				Path:       target,
				Detail:     "effective_role=" + string(session.EffectiveRole),
			})
			return c.Redirect("/login?access_denied=1&from="+url.QueryEscape(target), fiber.StatusFound)
		}

		return c.Redirect(target, fiber.StatusFound)
	}
}

func (g *Guard) publish(c *fiber.Ctx, event events.Event) {
	if g.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = g.dispatcher.Publish(c.UserContext(), event)
}

// SessionFromContext retrieves the resolved session for the request.
func SessionFromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*Session)
	return session, ok
}
