// Package actions aggregates every built-in action package and wires its
// registry.ActionSpec into a Registry. It exists as a separate package
// from internal/registry itself because each action package imports
// registry.ActionSpec/Caller — keeping the wiring here, one level up,
// avoids an import cycle between registry and its own action set.
package actions

import (
	"github.com/dukex/integrail/internal/actions/addcommenttoissue"
	"github.com/dukex/integrail/internal/actions/addlabeltoemail"
	"github.com/dukex/integrail/internal/actions/addreaction"
	"github.com/dukex/integrail/internal/actions/assignissue"
	"github.com/dukex/integrail/internal/actions/closeissue"
	"github.com/dukex/integrail/internal/actions/createissue"
	"github.com/dukex/integrail/internal/actions/replytoemail"
	"github.com/dukex/integrail/internal/actions/sendchannelmessage"
	"github.com/dukex/integrail/internal/actions/senddm"
	"github.com/dukex/integrail/internal/actions/sendemail"
	"github.com/dukex/integrail/internal/actions/sendwebhook"
	"github.com/dukex/integrail/internal/actions/staremail"
	"github.com/dukex/integrail/internal/actions/updatemessage"
	"github.com/dukex/integrail/internal/registry"
)

// RegisterAll wires every built-in action into reg, per spec.md §4.10's
// action table.
func RegisterAll(reg *registry.Registry) {
	reg.RegisterAction(sendchannelmessage.Spec())
	reg.RegisterAction(senddm.Spec())
	reg.RegisterAction(updatemessage.Spec())
	reg.RegisterAction(addreaction.Spec())
	reg.RegisterAction(sendemail.Spec())
	reg.RegisterAction(replytoemail.Spec())
	reg.RegisterAction(addlabeltoemail.Spec())
	reg.RegisterAction(staremail.Spec())
	reg.RegisterAction(createissue.Spec())
	reg.RegisterAction(addcommenttoissue.Spec())
	reg.RegisterAction(closeissue.Spec())
	reg.RegisterAction(assignissue.Spec())
	reg.RegisterAction(sendwebhook.Spec())
}
