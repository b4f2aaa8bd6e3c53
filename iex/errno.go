package iex

import (
	"strings"
	"syscall"
)

// errnoClasses lists the ErrnoExc subclasses. Each class maps to the errno
// symbol obtained by dropping the "Exc" suffix and upper-casing the rest.
var errnoClasses = []string{
	"EpermExc", "EnoentExc", "EsrchExc", "EintrExc", "EioExc", "EnxioExc",
	"E2bigExc", "EnoexecExc", "EbadfExc", "EchildExc", "EagainExc", "EnomemExc",
	"EaccesExc", "EfaultExc", "EnotblkExc", "EbusyExc", "EexistExc", "ExdevExc",
	"EnodevExc", "EnotdirExc", "EisdirExc", "EinvalExc", "EnfileExc", "EmfileExc",
	"EnottyExc", "EtxtbsyExc", "EfbigExc", "EnospcExc", "EspipeExc", "ErofsExc",
	"EmlinkExc", "EpipeExc", "EdomExc", "ErangeExc", "EnomsgExc", "EidrmExc",
	"EchrngExc", "El2nsyncExc", "El3hltExc", "El3rstExc", "ElnrngExc", "EunatchExc",
	"EnocsiExc", "El2hltExc", "EdeadlkExc", "EnolckExc", "EbadeExc", "EbadrExc",
	"ExfullExc", "EnoanoExc", "EbadrqcExc", "EbadsltExc", "EdeadlockExc", "EbfontExc",
	"EnostrExc", "EnodataExc", "EtimeExc", "EnosrExc", "EnonetExc", "EnopkgExc",
	"EremoteExc", "EnolinkExc", "EadvExc", "EsrmntExc", "EcommExc", "EprotoExc",
	"EmultihopExc", "EbadmsgExc", "EnametoolongExc", "EoverflowExc", "EnotuniqExc", "EbadfdExc",
	"EremchgExc", "ElibaccExc", "ElibbadExc", "ElibscnExc", "ElibmaxExc", "ElibexecExc",
	"EilseqExc", "EnosysExc", "EloopExc", "ErestartExc", "EstrpipeExc", "EnotemptyExc",
	"EusersExc", "EnotsockExc", "EdestaddrreqExc", "EmsgsizeExc", "EprototypeExc", "EnoprotooptExc",
	"EprotonosupportExc", "EsocktnosupportExc", "EopnotsuppExc", "EpfnosupportExc", "EafnosupportExc", "EaddrinuseExc",
	"EaddrnotavailExc", "EnetdownExc", "EnetunreachExc", "EnetresetExc", "EconnabortedExc", "EconnresetExc",
	"EnobufsExc", "EisconnExc", "EnotconnExc", "EshutdownExc", "EtoomanyrefsExc", "EtimedoutExc",
	"EconnrefusedExc", "EhostdownExc", "EhostunreachExc", "EalreadyExc", "EinprogressExc", "EstaleExc",
	"EioresidExc", "EucleanExc", "EnotnamExc", "EnavailExc", "EisnamExc", "EremoteioExc",
	"EinitExc", "EremdevExc", "EcanceledExc", "EnolimfileExc", "EproclimExc", "EdisjointExc",
	"EnologinExc", "EloginlimExc", "EgrouploopExc", "EnoattachExc", "EnotsupExc", "EnoattrExc",
	"EdircorruptedExc", "EdquotExc", "EnfsremoteExc", "EcontrollerExc", "EnotcontrollerExc", "EenqueuedExc",
	"EnotenqueuedExc", "EjoinedExc", "EnotjoinedExc", "EnoprocExc", "EmustrunExc", "EnotstoppedExc",
	"EclockcpuExc", "EinvalstateExc", "EnoexistExc", "EendofminorExc", "EbufsizeExc", "EemptyExc",
	"EnointrgroupExc", "EinvalmodeExc", "EcantextentExc", "EinvaltimeExc", "EdestroyedExc",
}

func init() {
	for _, name := range errnoClasses {
		symbol := strings.ToUpper(strings.TrimSuffix(name, "Exc"))
		if _, err := define(name, ErrnoExc, LibraryIex, symbol); err != nil {
			panic(err)
		}
	}
}

// ByErrno finds the errno class for a symbolic errno name such as "ENOENT".
func ByErrno(symbol string) (*Class, bool) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	c, ok := catalog.byErrno[symbol]
	return c, ok
}

// FromErrno creates the exception matching a system errno. Errnos without a
// dedicated class are raised as ErrnoExc. An empty message takes the system
// description of the errno.
func FromErrno(errno syscall.Errno, msg string) *Exc {
	if msg == "" {
		msg = errno.Error()
	}
	if c, ok := ByErrno(errnoSymbol(errno)); ok {
		return c.New(msg)
	}
	return ErrnoExc.New(msg)
}
