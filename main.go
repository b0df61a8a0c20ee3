package main

import (
	"log"
	"os"

	echoapi "github.com/tuitionhub/backend/api/echo"
	"github.com/tuitionhub/backend/core"
	"github.com/tuitionhub/backend/core/payment"
	"github.com/tuitionhub/backend/core/tuition"
	"github.com/tuitionhub/backend/core/tutor"
	"github.com/tuitionhub/backend/core/user"
	dummycheckout "github.com/tuitionhub/backend/services/checkout/dummy"
	stripecheckout "github.com/tuitionhub/backend/services/checkout/stripe"
	emailsvc "github.com/tuitionhub/backend/services/email"
	sendgridmail "github.com/tuitionhub/backend/services/email/sendgrid"
	logsvc "github.com/tuitionhub/backend/services/logger"
	"github.com/tuitionhub/backend/storage/database"
	pgdb "github.com/tuitionhub/backend/storage/database/pg"
)

func main() {
	conf, err := core.LoadConfig()
	errAndDie(err)

	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!(conf.Debug || conf.TestMode))

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(database.Migrate(db))

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = sendgridmail.NewService(conf)
	}

	var checkoutSvc payment.CheckoutService
	if conf.Stripe.SecretKey != "" {
		checkoutSvc = stripecheckout.NewService(conf)
	} else {
		// keyless local runs get an in-process provider
		checkoutSvc = dummycheckout.NewService()
	}

	usrSvc := user.NewService(pgdb.NewUserRepository(db))
	tutorSvc := tutor.NewService(pgdb.NewTutorRepository(db))
	tuitionSvc := tuition.NewService(pgdb.NewTuitionRepository(db))
	paymentSvc := payment.NewService(
		pgdb.NewPaymentRepository(db),
		tutorSvc,
		tuitionSvc,
		checkoutSvc,
		mailSvc,
		logger,
		conf.ClientDomain,
	)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    usrSvc,
		TutorSvc:   tutorSvc,
		TuitionSvc: tuitionSvc,
		PaymentSvc: paymentSvc,
		Validate:   validate,
		Translator: translator,
	})
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
