package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"

	"github.com/akmonengine/helm"
	"github.com/akmonengine/helm/actor"
	"github.com/akmonengine/helm/scene"
	"github.com/akmonengine/helm/steer"
	"github.com/akmonengine/helm/stream"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupScene builds a turret that tracks a target circling it, and a pet
// that yaws toward the same target.
func SetupScene(logger *slog.Logger) (*helm.World, *scene.Graph, *scene.Node, *actor.RigidBody, *actor.RigidBody) {
	world := helm.NewWorld()
	world.Gravity = mgl64.Vec3{}
	world.Logger = logger

	graph := scene.NewGraph()
	target := scene.NewNode("Target")
	target.Local.Position = mgl64.Vec3{5, 0, 0}
	if err := graph.Root.AddChild(target); err != nil {
		panic(err)
	}

	turret := actor.NewRigidBody(actor.NewTransform(), actor.BodyTypeDynamic, 1.0, &actor.Box{
		HalfExtents: mgl64.Vec3{0.5, 0.5, 1.5},
	})
	turret.Id = "turret"
	turret.CanSleep = false
	turret.SetIntegrator(steer.Follow(graph, "Target", actor.AxisForward))
	world.AddBody(turret)

	pet := actor.NewRigidBody(actor.Transform{Position: mgl64.Vec3{0, 0, 3}}, actor.BodyTypeDynamic, 1.0, &actor.Capsule{
		Radius:     0.3,
		HalfHeight: 0.5,
	})
	pet.Id = "pet"
	pet.CanSleep = false
	pet.SetIntegrator(steer.FollowAxis(graph, "Target", actor.AxisForward, actor.AxisUp))
	world.AddBody(pet)

	return world, graph, target, turret, pet
}

// orbit moves the target on a rising circle around the origin
func orbit(target *scene.Node, t float64) {
	target.Local.Position = mgl64.Vec3{5 * math.Cos(t), 2 * math.Sin(t/3), -5 * math.Sin(t)}
}

func main() {
	steps := flag.Int("steps", 120, "number of steps to print")
	dt := flag.Float64("dt", 1.0/60.0, "fixed time step in seconds")
	addr := flag.String("addr", "", "serve body states over websocket on this address and run in real time")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	world, _, target, turret, pet := SetupScene(logger)
	world.TimeStep = *dt

	if *addr != "" {
		serve(world, target, *addr, logger)
		return
	}

	fmt.Println("Look-follow: turret and pet tracking an orbiting target")
	fmt.Println("=======================================================")

	for step := 0; step < *steps; step++ {
		orbit(target, float64(step) * *dt)
		world.Step(*dt)

		_, _, turretForward := turret.Transform().Basis()
		_, _, petForward := pet.Transform().Basis()
		fmt.Printf("--- STEP %d ---\n", step+1)
		fmt.Printf("  Target:  %v\n", target.Local.Position)
		fmt.Printf("  Turret:  forward=%v omega=%v (len=%.3f)\n", turretForward, turret.AngularVelocity(), turret.AngularVelocity().Len())
		fmt.Printf("  Pet:     forward=%v omega=%v (len=%.3f)\n", petForward, pet.AngularVelocity(), pet.AngularVelocity().Len())
	}
}

func serve(world *helm.World, target *scene.Node, addr string, logger *slog.Logger) {
	hub := stream.NewHub(logger)
	hub.Attach(world)

	elapsed := 0.0
	world.Events.Subscribe(helm.STEP_COMPLETED, func(event helm.Event) {
		elapsed += event.(helm.StepEvent).Dt
		orbit(target, elapsed)
	})

	server := &http.Server{Addr: addr, Handler: hub}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("stream server stopped", slog.Any("err", err))
		}
	}()
	logger.Info("streaming body states", slog.String("addr", addr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := world.Run(ctx); err != nil {
		logger.Info("simulation stopped", slog.Any("reason", err))
	}
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("stream server shutdown failed", slog.Any("err", err))
	}
}
