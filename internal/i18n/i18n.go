// Package i18n holds the English and Italian user-facing strings.
package i18n

import "strings"

// Default is the language used when none, or an unknown one, is selected.
const Default = "en"

// Message keys.
const (
	MsgEmptyInput           = "EmptyInput"
	MsgInvalidTimeFormat    = "InvalidTimeFormat"
	MsgOutOfOrder           = "OutOfOrder"
	MsgAlreadyClockedIn     = "AlreadyClockedIn"
	MsgNotClockedIn         = "NotClockedIn"
	MsgInvalidDirection     = "InvalidDirection"
	MsgInvalidWorkdayLength = "InvalidWorkdayLength"
	MsgPersistenceFailure   = "PersistenceFailure"
	MsgSettingsSaved        = "settingsSaved"
	MsgTotal                = "total"
	MsgIn                   = "in"
	MsgOut                  = "out"
	MsgDate                 = "date"
	MsgTime                 = "time"
	MsgDirection            = "direction"
	MsgTimestamps           = "timestamps"
	MsgNoTimestamps         = "noTimestamps"
	MsgWorking              = "working"
	MsgNotWorking           = "notWorking"
	MsgRemaining            = "remaining"
	MsgStopAt               = "stopAt"
	MsgNext                 = "next"
	MsgProgress             = "progress"
	MsgWorkdayLength        = "workdayLength"
	MsgReset                = "reset"
	MsgRollover             = "rollover"
	MsgRecorded             = "recorded"
)

var catalog = map[string]map[string]string{
	"en": {
		MsgEmptyInput:           "Please enter a timestamp.",
		MsgInvalidTimeFormat:    "Please enter a valid time (HH:MM).",
		MsgOutOfOrder:           "Next timestamps cannot be before last one.",
		MsgAlreadyClockedIn:     `You are already marked as "in". Please mark "out" first.`,
		MsgNotClockedIn:         `You need to mark "in" before marking "out".`,
		MsgInvalidDirection:     `Direction must be "in" or "out".`,
		MsgInvalidWorkdayLength: "Workday length must be a positive number of hours.",
		MsgPersistenceFailure:   "Failed to save data. Storage may be full.",
		MsgSettingsSaved:        "Settings saved!",
		MsgTotal:                "Total",
		MsgIn:                   "In",
		MsgOut:                  "Out",
		MsgDate:                 "Date",
		MsgTime:                 "Time",
		MsgDirection:            "Direction",
		MsgTimestamps:           "Timestamps",
		MsgNoTimestamps:         "No timestamps recorded today.",
		MsgWorking:              "Working",
		MsgNotWorking:           "Not working",
		MsgRemaining:            "Remaining",
		MsgStopAt:               "Stop at",
		MsgNext:                 "Next",
		MsgProgress:             "Progress",
		MsgWorkdayLength:        "Workday length",
		MsgReset:                "Timestamps cleared.",
		MsgRollover:             "New day: previous timestamps cleared.",
		MsgRecorded:             "Recorded",
	},
	"it": {
		MsgEmptyInput:           "Inserisci un orario.",
		MsgInvalidTimeFormat:    "Inserisci un orario valido (HH:MM).",
		MsgOutOfOrder:           "La nuova timbratura non può essere precedente all'ultima.",
		MsgAlreadyClockedIn:     `Sei già segnato come "entrata". Segna prima "uscita".`,
		MsgNotClockedIn:         `Devi segnare "entrata" prima di "uscita".`,
		MsgInvalidDirection:     `La direzione deve essere "entrata" o "uscita".`,
		MsgInvalidWorkdayLength: "La durata della giornata deve essere un numero positivo di ore.",
		MsgPersistenceFailure:   "Impossibile salvare i dati. Lo storage potrebbe essere pieno.",
		MsgSettingsSaved:        "Impostazioni salvate!",
		MsgTotal:                "Totale",
		MsgIn:                   "Entrata",
		MsgOut:                  "Uscita",
		MsgDate:                 "Data",
		MsgTime:                 "Ora",
		MsgDirection:            "Direzione",
		MsgTimestamps:           "Timbrature",
		MsgNoTimestamps:         "Nessuna timbratura oggi.",
		MsgWorking:              "Al lavoro",
		MsgNotWorking:           "Non al lavoro",
		MsgRemaining:            "Rimanente",
		MsgStopAt:               "Fine alle",
		MsgNext:                 "Prossima",
		MsgProgress:             "Avanzamento",
		MsgWorkdayLength:        "Durata giornata lavorativa",
		MsgReset:                "Timbrature cancellate.",
		MsgRollover:             "Nuovo giorno: timbrature precedenti cancellate.",
		MsgRecorded:             "Registrato",
	},
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	_, ok := catalog[strings.ToLower(lang)]
	return ok
}

// Normalize lower-cases lang and falls back to Default when it is unknown.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := catalog[lang]; ok {
		return lang
	}
	return Default
}

// Languages lists the supported tags.
func Languages() []string {
	return []string{"en", "it"}
}

// T returns the message for key in lang, falling back to English and then to key itself.
func T(lang, key string) string {
	if msg, ok := catalog[Normalize(lang)][key]; ok {
		return msg
	}
	if msg, ok := catalog[Default][key]; ok {
		return msg
	}
	return key
}
