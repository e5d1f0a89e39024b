package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/gantry/pkg/builtin"
	"github.com/arthur-debert/gantry/pkg/config"
	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/arthur-debert/gantry/pkg/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, run PlanRunner) (*tasks.Registry, string) {
	t.Helper()
	root := t.TempDir()
	reg, err := Build(Options{Config: config.Default(), ProjectRoot: root, RunPlan: run})
	require.NoError(t, err)
	return reg, root
}

// commands renders every step of a plan
func commands(p *tasks.Plan) []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.String()
	}
	return out
}

func TestBuildValidation(t *testing.T) {
	_, err := Build(Options{ProjectRoot: "/project"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = Build(Options{Config: config.Default()})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCatalogueIsSealed(t *testing.T) {
	reg, _ := build(t, nil)
	err := reg.Register("extra", tasks.Composite{Children: []string{"npm"}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestEveryTaskResolves(t *testing.T) {
	reg, _ := build(t, nil)
	for _, name := range reg.Names() {
		for _, env := range append(environment.Concrete(), environment.All) {
			_, err := reg.Resolve(name, env)
			if env == environment.Test && errors.IsErrorCode(err, errors.ErrMissingVariant) {
				continue
			}
			assert.NoError(t, err, "%s for %s", name, env)
		}
	}
}

func TestConsoleVariantsSkipTest(t *testing.T) {
	reg, _ := build(t, nil)

	for _, name := range []string{TaskCache, "assets", "sf2-cache-clear", "sf2-assets-install", "sf2-assetic-dump", TaskInstall} {
		_, err := reg.Resolve(name, environment.Test)
		require.Error(t, err, name)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMissingVariant), "%s: %v", name, err)
		assert.Equal(t, "test", errors.GetErrorDetails(err)[errors.DetailEnvironment])
	}

	info, err := reg.Describe("sf2-cache-clear")
	require.NoError(t, err)
	assert.Equal(t, []environment.Environment{
		environment.Prod, environment.Stage, environment.QA, environment.Dev, environment.Local,
	}, info.Environments)
}

func TestInstallPlan(t *testing.T) {
	reg, _ := build(t, nil)

	p, err := reg.Resolve(TaskDefault, environment.Dev)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"git-submodule-init",
		"git-submodule-update",
		"copy:configs",
		"composer-download",
		"composer-install",
		"npm",
		"bower",
		"migrate",
		"sf2-assets-install:dev",
		"sf2-assetic-dump:dev",
		"sf2-cache-clear:dev",
		"plans",
		"behat",
	}, p.Names())

	assert.Equal(t, []string{
		"git submodule init",
		"git submodule update",
		"copy manage/web/app_*.php -> web/",
		`sh -c "curl -sS https://getcomposer.org/installer | php"`,
		"php composer.phar install -o",
		"npm install",
		"bower install --config.directory=app/resources/assets/vendor",
		"php app/console doctrine:migrations:migrate --no-interaction",
		"php app/console assets:install --env=dev --no-debug",
		"php app/console assetic:dump --env=dev",
		"php app/console cache:clear --env=dev --no-warmup",
		"php app/console stripe:create:plans manage/stripe/plans.csv --no-debug --no-interaction",
		"bin/behat",
	}, commands(p))
}

func TestInstallProd(t *testing.T) {
	reg, root := build(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(root, "composer.phar"), []byte("phar"), 0644))

	p, err := reg.Resolve(TaskInstall, environment.Prod)
	require.NoError(t, err)

	names := p.Names()
	assert.Equal(t, []string{"git-submodule-init", "git-submodule-update", "clean:prod", "composer-self-update"}, names[:4])
	assert.Contains(t, commands(p), "php composer.phar self-update")
	assert.Contains(t, commands(p), "php app/console cache:clear --env=prod --no-debug --no-warmup")
	assert.Contains(t, commands(p), "php app/console assetic:dump --env=prod --no-debug")
	assert.Contains(t, commands(p), "clean web/app_*.php web/config.php web/check.php")
}

func TestConfigureBranch(t *testing.T) {
	reg, _ := build(t, nil)

	tests := []struct {
		env  environment.Environment
		want string
	}{
		{environment.Prod, "clean:prod"},
		{environment.Stage, "copy:configs"},
		{environment.QA, "copy:configs"},
		{environment.Test, "copy:configs"},
		{environment.Dev, "copy:configs"},
		{environment.Local, "copy:configs"},
		{environment.All, "copy:configs"},
	}
	for _, tt := range tests {
		t.Run(tt.env.String(), func(t *testing.T) {
			p, err := reg.Resolve(TaskConfigure, tt.env)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, p.Names())
		})
	}
}

func TestCacheAllEnvironments(t *testing.T) {
	reg, _ := build(t, nil)

	p, err := reg.Resolve(TaskCache, environment.All)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"php app/console cache:clear --env=prod --no-debug --no-warmup",
		"php app/console cache:clear --env=stage --no-debug --no-warmup",
		"php app/console cache:clear --env=qa --no-debug --no-warmup",
		"php app/console cache:clear --env=dev --no-warmup",
		"php app/console cache:clear --env=local --no-warmup",
	}, commands(p))
	for i, env := range []environment.Environment{environment.Prod, environment.Stage, environment.QA, environment.Dev, environment.Local} {
		assert.Equal(t, env, p.Steps[i].Env)
	}
}

func TestUpdateAll(t *testing.T) {
	reg, _ := build(t, nil)

	p, err := reg.Resolve(TaskUpdate, environment.All)
	require.NoError(t, err)

	// 6 environment independent steps, 5 x 3 console variants
	assert.Equal(t, 6+15, p.Len())
	for _, s := range p.Steps {
		assert.False(t, s.Env.IsAll(), "step %s carries the all sentinel", s.Name)
	}
	assert.Equal(t, "php composer.phar update -o", p.Steps[2].String())
}

func TestDevPlan(t *testing.T) {
	reg, root := build(t, nil)

	p, err := reg.Resolve(TaskDev, environment.Dev)
	require.NoError(t, err)

	assert.Equal(t, []string{"clean:build", "copy:dev", "sass:build", "watch"}, p.Names())
	assert.Equal(t,
		"sass --load-path=app/resources/assets/vendor/foundation/scss/ --load-path=app/resources/assets/scss/ --source-map app/resources/assets/scss:web/assets/css",
		p.Steps[2].String())
	assert.Equal(t, "clean web/assets/**", p.Steps[0].String())
	assert.Equal(t,
		"watch "+filepath.Join(root, "app/resources/assets/scss")+"/**/*.scss -> copy:assets, sass:build",
		p.Steps[3].String())

	js, err := reg.Resolve("dev:js", environment.Dev)
	require.NoError(t, err)
	assert.Equal(t, []string{"copy:jsOnlyIgnoreVendor"}, js.Names())
}

func TestConfiguredBinaries(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{
		SkipEnv: true,
		Overrides: map[string]interface{}{
			"bins.php":     "/usr/bin/php8",
			"bins.console": "bin/console",
		},
	})
	require.NoError(t, err)

	reg, err := Build(Options{Config: cfg, ProjectRoot: t.TempDir()})
	require.NoError(t, err)

	p, err := reg.Resolve("migrate", environment.Dev)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/php8 bin/console doctrine:migrations:migrate --no-interaction", p.Steps[0].String())
}

func TestWatchRebuild(t *testing.T) {
	var ran [][]string
	var envs []environment.Environment
	reg, _ := build(t, func(ctx context.Context, plan *tasks.Plan) error {
		ran = append(ran, plan.Names())
		envs = append(envs, plan.Env)
		return nil
	})

	task, err := reg.Get(TaskWatch)
	require.NoError(t, err)
	watch, ok := task.(tasks.Builtin).Action.(*builtin.Watch)
	require.True(t, ok)

	require.NoError(t, watch.Rebuild(context.Background(), environment.Dev))
	assert.Equal(t, [][]string{{"clean:build", "copy:dev"}, {"sass:build"}}, ran)
	assert.Equal(t, []environment.Environment{environment.Dev, environment.Dev}, envs)

	ran = nil
	envs = nil
	require.NoError(t, watch.Rebuild(context.Background(), ""))
	assert.Equal(t, []environment.Environment{environment.All, environment.All}, envs)
}

func TestWatchRebuildWithoutRunner(t *testing.T) {
	reg, _ := build(t, nil)
	task, err := reg.Get(TaskWatch)
	require.NoError(t, err)

	err = task.(tasks.Builtin).Action.(*builtin.Watch).Rebuild(context.Background(), environment.Dev)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}
