package service

import (
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
)

func domainSMTP() domain.SmtpSettings {
	return domain.SmtpSettings{Host: "smtp.gda.es", Port: 587, User: "rrhh", Password: "x", Enabled: true}
}

func defaultTemplates() []domain.EmailTemplate {
	return []domain.EmailTemplate{
		{
			ID:         TemplateRequestCreated,
			Label:      "Nueva solicitud",
			Subject:    "Nueva solicitud de {empleado}",
			Body:       "{empleado} ha solicitado {tipo} para {fechas}. Supervisores: {supervisor}",
			Recipients: domain.TemplateRecipients{Supervisor: true, Admin: true},
		},
		{
			ID:         TemplateRequestApproved,
			Label:      "Solicitud aprobada",
			Subject:    "Tu solicitud de {tipo} ha sido aprobada",
			Body:       "Hola {empleado}. {comentario_admin}",
			Recipients: domain.TemplateRecipients{Worker: true},
		},
		{
			ID:         TemplateRequestRejected,
			Label:      "Solicitud rechazada",
			Subject:    "Tu solicitud de {tipo} ha sido rechazada",
			Body:       "Motivo: {comentario_admin}",
			Recipients: domain.TemplateRecipients{Worker: true},
		},
	}
}

func storeUserDays(days float64) store.UserPatch {
	return store.UserPatch{DaysAvailable: &days}
}
