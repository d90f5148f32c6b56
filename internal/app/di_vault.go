package app

import (
	"fmt"

	vaultRepository "github.com/adminsuite/vault/internal/vault/repository"
	vaultService "github.com/adminsuite/vault/internal/vault/service"
	vaultUsecase "github.com/adminsuite/vault/internal/vault/usecase"
)

// Authorizer returns the vault authorizer.
//
// The super-admin lookup is nil here: the vault core has no principal store of
// its own, so embedding applications wire their role check in at a higher
// level when they need the bypass.
func (c *Container) Authorizer() vaultService.Authorizer {
	c.authorizerInit.Do(func() {
		c.authorizer = vaultService.NewAuthorizer(nil)
	})
	return c.authorizer
}

// AccessLogSigner returns the access log signer.
func (c *Container) AccessLogSigner() vaultService.AccessLogSigner {
	c.accessLogSignerInit.Do(func() {
		c.accessLogSigner = vaultService.NewAccessLogSigner()
	})
	return c.accessLogSigner
}

// SecretRecordRepository returns the secret record repository based on the database driver.
func (c *Container) SecretRecordRepository() (vaultUsecase.SecretRecordRepository, error) {
	var err error
	c.secretRecordRepoInit.Do(func() {
		c.secretRecordRepo, err = c.initSecretRecordRepository()
		if err != nil {
			c.initErrors["secretRecordRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretRecordRepo"]; exists {
		return nil, storedErr
	}
	return c.secretRecordRepo, nil
}

// FolderRepository returns the folder repository based on the database driver.
func (c *Container) FolderRepository() (vaultUsecase.FolderRepository, error) {
	var err error
	c.folderRepoInit.Do(func() {
		c.folderRepo, err = c.initFolderRepository()
		if err != nil {
			c.initErrors["folderRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["folderRepo"]; exists {
		return nil, storedErr
	}
	return c.folderRepo, nil
}

// ShareGrantRepository returns the share grant repository based on the database driver.
func (c *Container) ShareGrantRepository() (vaultUsecase.ShareGrantRepository, error) {
	var err error
	c.shareGrantRepoInit.Do(func() {
		c.shareGrantRepo, err = c.initShareGrantRepository()
		if err != nil {
			c.initErrors["shareGrantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["shareGrantRepo"]; exists {
		return nil, storedErr
	}
	return c.shareGrantRepo, nil
}

// AccessLogRepository returns the access log repository based on the database driver.
func (c *Container) AccessLogRepository() (vaultUsecase.AccessLogRepository, error) {
	var err error
	c.accessLogRepoInit.Do(func() {
		c.accessLogRepo, err = c.initAccessLogRepository()
		if err != nil {
			c.initErrors["accessLogRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessLogRepo"]; exists {
		return nil, storedErr
	}
	return c.accessLogRepo, nil
}

// AccessLogUseCase returns the access log use case.
func (c *Container) AccessLogUseCase() (vaultUsecase.AccessLogUseCase, error) {
	var err error
	c.accessLogUseCaseInit.Do(func() {
		c.accessLogUseCase, err = c.initAccessLogUseCase()
		if err != nil {
			c.initErrors["accessLogUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.accessLogUseCase, nil
}

// SecretRecordUseCase returns the secret record use case, wrapped with metrics
// instrumentation.
func (c *Container) SecretRecordUseCase() (vaultUsecase.SecretRecordUseCase, error) {
	var err error
	c.secretRecordUseCaseInit.Do(func() {
		c.secretRecordUseCase, err = c.initSecretRecordUseCase()
		if err != nil {
			c.initErrors["secretRecordUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretRecordUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretRecordUseCase, nil
}

// FolderUseCase returns the folder use case, wrapped with metrics instrumentation.
func (c *Container) FolderUseCase() (vaultUsecase.FolderUseCase, error) {
	var err error
	c.folderUseCaseInit.Do(func() {
		c.folderUseCase, err = c.initFolderUseCase()
		if err != nil {
			c.initErrors["folderUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["folderUseCase"]; exists {
		return nil, storedErr
	}
	return c.folderUseCase, nil
}

// initSecretRecordRepository creates the secret record repository based on the database driver.
func (c *Container) initSecretRecordRepository() (vaultUsecase.SecretRecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for secret record repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLSecretRecordRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLSecretRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initFolderRepository creates the folder repository based on the database driver.
func (c *Container) initFolderRepository() (vaultUsecase.FolderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for folder repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLFolderRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLFolderRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initShareGrantRepository creates the share grant repository based on the database driver.
func (c *Container) initShareGrantRepository() (vaultUsecase.ShareGrantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for share grant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLShareGrantRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLShareGrantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccessLogRepository creates the access log repository based on the database driver.
func (c *Container) initAccessLogRepository() (vaultUsecase.AccessLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for access log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLAccessLogRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLAccessLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccessLogUseCase creates the access log use case with all its dependencies.
func (c *Container) initAccessLogUseCase() (vaultUsecase.AccessLogUseCase, error) {
	accessLogRepo, err := c.AccessLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access log repository for access log use case: %w", err)
	}

	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key for access log use case: %w", err)
	}

	return vaultUsecase.NewAccessLogUseCase(
		accessLogRepo,
		c.AccessLogSigner(),
		masterKey,
		c.Logger(),
	), nil
}

// initSecretRecordUseCase creates the secret record use case with all its dependencies.
func (c *Container) initSecretRecordUseCase() (vaultUsecase.SecretRecordUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret record use case: %w", err)
	}

	secretRecordRepo, err := c.SecretRecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret record repository for secret record use case: %w", err)
	}

	folderRepo, err := c.FolderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder repository for secret record use case: %w", err)
	}

	shareGrantRepo, err := c.ShareGrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get share grant repository for secret record use case: %w", err)
	}

	secretCipher, err := c.SecretCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret cipher for secret record use case: %w", err)
	}

	accessLogUseCase, err := c.AccessLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access log use case for secret record use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secret record use case: %w", err)
	}

	useCase := vaultUsecase.NewSecretRecordUseCase(
		txManager,
		secretRecordRepo,
		folderRepo,
		shareGrantRepo,
		secretCipher,
		c.Authorizer(),
		accessLogUseCase,
		c.Logger(),
	)

	return vaultUsecase.NewSecretRecordUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initFolderUseCase creates the folder use case with all its dependencies.
func (c *Container) initFolderUseCase() (vaultUsecase.FolderUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for folder use case: %w", err)
	}

	folderRepo, err := c.FolderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder repository for folder use case: %w", err)
	}

	secretRecordRepo, err := c.SecretRecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret record repository for folder use case: %w", err)
	}

	shareGrantRepo, err := c.ShareGrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get share grant repository for folder use case: %w", err)
	}

	accessLogUseCase, err := c.AccessLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access log use case for folder use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for folder use case: %w", err)
	}

	useCase := vaultUsecase.NewFolderUseCase(
		txManager,
		folderRepo,
		secretRecordRepo,
		shareGrantRepo,
		c.Authorizer(),
		accessLogUseCase,
		c.Logger(),
	)

	return vaultUsecase.NewFolderUseCaseWithMetrics(useCase, businessMetrics), nil
}
